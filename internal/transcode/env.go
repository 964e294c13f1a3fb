package transcode

import (
	"os"
	"strings"
)

// prependSearchPath returns env with dir placed first on the PATH entry. The
// key comparison is case-insensitive because Windows spells it "Path".
func prependSearchPath(env []string, dir string) []string {
	out := make([]string, 0, len(env)+1)
	found := false
	for _, entry := range env {
		key, value, ok := strings.Cut(entry, "=")
		if ok && strings.EqualFold(key, "PATH") && !found {
			found = true
			if value == "" {
				out = append(out, key+"="+dir)
			} else {
				out = append(out, key+"="+dir+string(os.PathListSeparator)+value)
			}
			continue
		}
		out = append(out, entry)
	}
	if !found {
		out = append(out, "PATH="+dir)
	}
	return out
}
