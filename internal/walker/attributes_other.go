//go:build !windows && !darwin

package walker

import (
	"os"

	"github.com/temirov/fzwalk/internal/types"
)

func platformAttributes(_ string, info os.FileInfo) types.Attributes {
	return types.Attributes{Directory: info.IsDir()}
}
