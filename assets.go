package md2blog

import (
	"errors"

	"github.com/alnah/go-md2blog/internal/assets"
)

// Built-in asset names.
const (
	DefaultStyle       = assets.DefaultStyleName
	DefaultTemplateSet = assets.DefaultTemplateSetName
)

// styleAsset is the file name of the combined stylesheet returned by Assets.
const styleAsset = "style.css"

// StyleNames lists the built-in styles.
func StyleNames() []string {
	return assets.NewEmbeddedLoader().StyleNames()
}

// assetErrors maps internal asset errors to the exported sentinels. An
// invalid name cannot name any style, so it reads as not found.
var assetErrors = []struct {
	internal, public error
}{
	{assets.ErrStyleNotFound, ErrStyleNotFound},
	{assets.ErrInvalidAssetName, ErrStyleNotFound},
	{assets.ErrTemplateSetNotFound, ErrTemplateSetNotFound},
	{assets.ErrIncompleteTemplateSet, ErrIncompleteTemplateSet},
	{assets.ErrInvalidBasePath, ErrInvalidAssetPath},
	{assets.ErrPathTraversal, ErrInvalidAssetPath},
}

// convertAssetError keeps the message of err and makes it match the
// exported sentinel with errors.Is.
func convertAssetError(err error) error {
	for _, m := range assetErrors {
		if errors.Is(err, m.internal) {
			return &assetError{public: m.public, msg: err.Error()}
		}
	}
	return err
}

type assetError struct {
	public error
	msg    string
}

func (e *assetError) Error() string { return e.msg }
func (e *assetError) Unwrap() error { return e.public }
