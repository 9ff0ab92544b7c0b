package catalog

import (
	"os"
	"path/filepath"
	"strings"
	"time"
)

// mirrorTimezones are the zones where the npmmirror registry is usually closer
var mirrorTimezones = map[string]bool{
	"Asia/Shanghai":  true,
	"Asia/Chongqing": true,
	"Asia/Harbin":    true,
	"Asia/Urumqi":    true,
}

// IsLocaleBiased reports whether tz should put the mirror registry first
func IsLocaleBiased(tz string) bool {
	return mirrorTimezones[tz]
}

// DetectTimezone returns the IANA name of the local timezone, preferring
// override, then $TZ, then the /etc/localtime link. It returns "" when the
// zone cannot be named.
func DetectTimezone(override string) string {
	if override != "" {
		return override
	}
	if tz := strings.TrimPrefix(os.Getenv("TZ"), ":"); tz != "" {
		return tz
	}
	if target, err := os.Readlink("/etc/localtime"); err == nil {
		target = filepath.ToSlash(target)
		if i := strings.Index(target, "zoneinfo/"); i >= 0 {
			return target[i+len("zoneinfo/"):]
		}
	}
	if name := time.Local.String(); name != "Local" {
		return name
	}
	return ""
}
