package renderer

import (
	"errors"
	"fmt"
)

// ErrTextureNotLoaded is matched by TextureNotLoadedError.
var ErrTextureNotLoaded = errors.New("texture not loaded")

// TextureNotLoadedError is returned when a textured draw names a key that is
// not in the atlas. Nothing is drawn and no load is started.
type TextureNotLoadedError struct {
	Key string
}

func (e *TextureNotLoadedError) Error() string {
	return fmt.Sprintf("texture %q not loaded", e.Key)
}

func (e *TextureNotLoadedError) Is(target error) bool { return target == ErrTextureNotLoaded }
