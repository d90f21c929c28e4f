// Package lookup assembles the unit search path consumed by the resolver.
//
// Two scopes are supported, mirroring the usual service-manager layout.
// Paths are listed highest precedence first:
//
//	system:
//	  /etc/<app>/system.control
//	  /run/<app>/system.control
//	  /run/<app>/transient
//	  /etc/<app>/system
//	  /run/<app>/system
//	  /usr/local/lib/<app>/system
//	  /usr/lib/<app>/system
//
//	user:
//	  $XDG_CONFIG_HOME/<app>/user.control
//	  $XDG_RUNTIME_DIR/<app>/user.control
//	  $XDG_RUNTIME_DIR/<app>/transient
//	  $XDG_CONFIG_HOME/<app>/user
//	  /etc/<app>/user
//	  $XDG_RUNTIME_DIR/<app>/user
//	  $XDG_DATA_HOME/<app>/user
//	  $XDG_DATA_DIRS/<app>/user (each entry)
//	  /usr/lib/<app>/user
//
// # Environment Variables
//
//   - DROPIN_UNIT_PATH: colon separated roots replacing the defaults. A
//     trailing colon appends the defaults after the given roots.
//   - XDG_*: resolved through github.com/adrg/xdg for the user scope.
package lookup
