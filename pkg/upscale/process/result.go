package process

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/tauraamui/vidupscale/pkg/configdef"
	"github.com/tauraamui/vidupscale/pkg/video/videoframe"
)

// EnhancedResult is one enhanced frame waiting to be written. It is
// consumed exactly once.
type EnhancedResult struct {
	Index    int
	Source   string
	Image    videoframe.Image
	SavePath string
	Ext      string
}

// ResolveExtension picks the output format. Alpha always forces png, auto
// copies the source extension.
func ResolveExtension(policy, sourceExt string, hasAlpha bool) string {
	if hasAlpha {
		return configdef.ExtPNG
	}
	if policy == configdef.ExtAuto || len(policy) == 0 {
		ext := strings.ToLower(strings.TrimPrefix(sourceExt, "."))
		if len(ext) == 0 {
			return configdef.ExtPNG
		}
		return ext
	}
	return policy
}

func SaveName(f videoframe.Frame, ext string) string {
	return fmt.Sprintf("%s_out.%s", f.Name(), ext)
}

func NewEnhancedResult(f videoframe.Frame, img videoframe.Image, dir, policy string) EnhancedResult {
	ext := ResolveExtension(policy, f.Ext(), f.HasAlpha())
	return EnhancedResult{
		Index:    f.Index,
		Source:   f.Source(),
		Image:    img,
		SavePath: filepath.Join(dir, SaveName(f, ext)),
		Ext:      ext,
	}
}
