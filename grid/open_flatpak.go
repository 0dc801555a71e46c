//go:build flatpak && !windows && !android && !ios && !wasm && !js

package grid

import (
	"github.com/rymdport/portal/openuri"
)

// OpenExternally hands an activated file-path identifier to the XDG desktop
// portal, which opens it with the user's default application. Named icon
// identifiers have no external representation and are ignored.
func OpenExternally(id string) error {
	if !pathLike(id) {
		return nil
	}
	return openuri.OpenURI("", "file://"+id, nil)
}
