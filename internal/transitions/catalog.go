package transitions

import "sort"

// catalog maps abstract transition identifiers to the engine's named xfade
// algorithms. Keys are the identifiers the editing layer persists; values are
// stable engine names.
var catalog = map[string]string{
	"cut":          "fade", // zero-duration cuts never reach the blend stage
	"fade":         "fade",
	"dissolve":     "fade",
	"fade-black":   "fadeblack",
	"fade-white":   "fadewhite",
	"wipe-left":    "wipeleft",
	"wipe-right":   "wiperight",
	"wipe-up":      "wipeup",
	"wipe-down":    "wipedown",
	"slide-left":   "slideleft",
	"slide-right":  "slideright",
	"slide-up":     "slideup",
	"slide-down":   "slidedown",
	"circle-open":  "circleopen",
	"circle-close": "circleclose",
	"radial":       "radial",
	"pixelize":     "pixelize",
	"noise":        "dissolve",
	"smooth-left":  "smoothleft",
	"smooth-right": "smoothright",
}

// DefaultBlend is the permissive fallback applied to unrecognized transition
// types. The build still succeeds; the emitter records a warning so the
// fallback is observable.
const DefaultBlend = "fade"

// CatalogNames returns the sorted identifiers the catalog accepts, for
// diagnostics and validation messages.
func CatalogNames() []string {
	names := make([]string, 0, len(catalog))
	for name := range catalog {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
