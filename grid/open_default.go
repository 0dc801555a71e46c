//go:build !flatpak || windows || android || ios || wasm || js

package grid

// OpenExternally is a no-op outside the desktop portal sandbox; the
// application decides how to open activated items.
func OpenExternally(id string) error {
	return nil
}
