// Package logsink turns a zap logger into an injectable log hub. Listeners
// register on a Hub and receive every entry written through a core wrapped
// by that Hub, independently of the level the base core is configured for.
package logsink
