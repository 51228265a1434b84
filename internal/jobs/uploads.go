package jobs

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"
)

var reUnsafeName = regexp.MustCompile(`[^A-Za-z0-9_.-]+`)

// SafeFilename reduces name to a plain file name made of letters, digits,
// dot, dash and underscore.
func SafeFilename(name string) string {
	name = filepath.Base(strings.ReplaceAll(name, `\`, "/"))
	name = strings.Join(strings.Fields(name), "_")
	name = reUnsafeName.ReplaceAllString(name, "")
	name = strings.TrimLeft(name, "._")
	if name == "" {
		return "audio"
	}
	return name
}

// UploadPath returns a free path for name inside dir. An existing file is
// never overwritten; a timestamp prefix is added instead.
func UploadPath(dir, name string) string {
	name = SafeFilename(name)
	p := filepath.Join(dir, name)
	if _, err := os.Stat(p); os.IsNotExist(err) {
		return p
	}
	return filepath.Join(dir, fmt.Sprintf("%d_%s", time.Now().UnixNano(), name))
}
