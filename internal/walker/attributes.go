package walker

import (
	"os"

	"github.com/temirov/fzwalk/internal/types"
	"github.com/temirov/fzwalk/internal/utils"
)

// AttributeProbe reports platform file attributes.
type AttributeProbe interface {
	Attributes(path string, info os.FileInfo) types.Attributes
}

// AttributeProbeFunc adapts a function to AttributeProbe.
type AttributeProbeFunc func(path string, info os.FileInfo) types.Attributes

// Attributes calls probe(path, info).
func (probe AttributeProbeFunc) Attributes(path string, info os.FileInfo) types.Attributes {
	return probe(path, info)
}

// NewAttributeProbe returns the probe of the running platform.
func NewAttributeProbe() AttributeProbe {
	return AttributeProbeFunc(platformAttributes)
}

// isVolumeRootOverride reports a root that is emitted even when hidden:
// a hidden, system directory without a parent, such as a Windows drive root.
func isVolumeRootOverride(path string, attributes types.Attributes) bool {
	return attributes.Hidden && attributes.System && attributes.Directory && utils.IsVolumeRoot(path)
}
