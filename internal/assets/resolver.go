package assets

// AssetResolver reads a custom asset directory first and falls back to the
// built-in assets for anything that directory does not provide. Validation
// and read errors from the custom directory are returned as is.
type AssetResolver struct {
	chain    []Loader
	embedded *EmbeddedLoader
	custom   *FilesystemLoader
}

// NewAssetResolver creates an AssetResolver. An empty customBasePath uses the
// built-in assets only.
func NewAssetResolver(customBasePath string) (*AssetResolver, error) {
	r := &AssetResolver{embedded: NewEmbeddedLoader()}
	if customBasePath != "" {
		custom, err := NewFilesystemLoader(customBasePath)
		if err != nil {
			return nil, err
		}
		r.custom = custom
		r.chain = append(r.chain, custom)
	}
	r.chain = append(r.chain, r.embedded)
	return r, nil
}

// LoadStyle implements Loader.
func (r *AssetResolver) LoadStyle(name string) (string, error) {
	return firstFound(r.chain, func(l Loader) (string, error) { return l.LoadStyle(name) })
}

// LoadScript implements Loader.
func (r *AssetResolver) LoadScript(name string) (string, error) {
	return firstFound(r.chain, func(l Loader) (string, error) { return l.LoadScript(name) })
}

// LoadTemplateSet implements Loader.
func (r *AssetResolver) LoadTemplateSet(name string) (*TemplateSet, error) {
	return firstFound(r.chain, func(l Loader) (*TemplateSet, error) { return l.LoadTemplateSet(name) })
}

// StyleNames lists the built-in styles.
func (r *AssetResolver) StyleNames() []string {
	return r.embedded.StyleNames()
}

// CustomRoot returns the custom asset directory, or "" when there is none.
func (r *AssetResolver) CustomRoot() string {
	if r.custom == nil {
		return ""
	}
	return r.custom.Root()
}

func firstFound[T any](chain []Loader, load func(Loader) (T, error)) (T, error) {
	var (
		zero T
		err  error
	)
	for _, l := range chain {
		var v T
		if v, err = load(l); err == nil {
			return v, nil
		}
		if !isNotFound(err) {
			return zero, err
		}
	}
	return zero, err
}

var _ Loader = (*AssetResolver)(nil)
