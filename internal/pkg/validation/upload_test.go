package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var allowed = map[string]bool{"png": true, "jpg": true, "jpeg": true, "gif": true, "webp": true}

func TestValidateImageFilenameAccepts(t *testing.T) {
	for name, want := range map[string]string{
		"a.png":            "png",
		"A.JPG":            "jpg",
		"archive.tar.jpeg": "jpeg",
		"x.GiF":            "gif",
		".webp":            "webp",
	} {
		ext, verr := ValidateImageFilename(name, allowed)
		require.Nil(t, verr, name)
		assert.Equal(t, want, ext, name)
	}
}

func TestValidateImageFilenameRejects(t *testing.T) {
	cases := map[string]UploadErrorCode{
		"":              CodeMissingFile,
		"   ":           CodeMissingFile,
		"README":        CodeNoExtension,
		"script.php":    CodeExtensionNotAllowed,
		"photo.jpg.exe": CodeExtensionNotAllowed,
		"photo.":        CodeExtensionNotAllowed,
		"image.bmp":     CodeExtensionNotAllowed,
	}
	for name, code := range cases {
		ext, verr := ValidateImageFilename(name, allowed)
		require.NotNil(t, verr, name)
		assert.Equal(t, code, verr.Code, name)
		assert.Empty(t, ext)
		assert.NotEmpty(t, verr.Error())
		assert.NotEmpty(t, verr.Message())
	}
}
