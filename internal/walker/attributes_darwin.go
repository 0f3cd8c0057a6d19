//go:build darwin

package walker

import (
	"os"
	"syscall"

	"golang.org/x/sys/unix"

	"github.com/temirov/fzwalk/internal/types"
)

// userFlagHidden is UF_HIDDEN from <sys/stat.h>.
const userFlagHidden = 0x00008000

func platformAttributes(path string, info os.FileInfo) types.Attributes {
	attributes := types.Attributes{Directory: info.IsDir()}
	if stat, isStat := info.Sys().(*syscall.Stat_t); isStat && stat != nil {
		attributes.Hidden = stat.Flags&userFlagHidden != 0
		return attributes
	}
	var stat unix.Stat_t
	if lstatError := unix.Lstat(path, &stat); lstatError == nil {
		attributes.Hidden = stat.Flags&userFlagHidden != 0
	}
	return attributes
}
