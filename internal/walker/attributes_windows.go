//go:build windows

package walker

import (
	"os"
	"syscall"

	"golang.org/x/sys/windows"

	"github.com/temirov/fzwalk/internal/types"
)

func platformAttributes(path string, info os.FileInfo) types.Attributes {
	var rawAttributes uint32
	if data, isWin32 := info.Sys().(*syscall.Win32FileAttributeData); isWin32 && data != nil {
		rawAttributes = data.FileAttributes
	} else {
		pathPointer, conversionError := windows.UTF16PtrFromString(path)
		if conversionError != nil {
			return types.Attributes{Directory: info.IsDir()}
		}
		queried, queryError := windows.GetFileAttributes(pathPointer)
		if queryError != nil {
			return types.Attributes{Directory: info.IsDir()}
		}
		rawAttributes = queried
	}
	return types.Attributes{
		Hidden:    rawAttributes&windows.FILE_ATTRIBUTE_HIDDEN != 0,
		System:    rawAttributes&windows.FILE_ATTRIBUTE_SYSTEM != 0,
		Directory: rawAttributes&windows.FILE_ATTRIBUTE_DIRECTORY != 0,
	}
}
