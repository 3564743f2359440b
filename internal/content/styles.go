package content

import "sitesync/internal/control"

// Styles are the page-wide design knobs. Sizes and offsets are in pixels,
// image width and scale in percent. A zero video size means fluid.
type Styles struct {
	HeroTitleSize   int    `json:"heroTitleSize"`
	ButtonPaddingX  int    `json:"buttonPaddingX"`
	ButtonPaddingY  int    `json:"buttonPaddingY"`
	ButtonTextSize  int    `json:"buttonTextSize"`
	SectionSpacing  int    `json:"sectionSpacing"`
	BorderRadius    int    `json:"borderRadius"`
	BrandLogo       string `json:"brandLogo"`
	HeroBackground  string `json:"heroBackground"`
	HeroImgWidth    int    `json:"heroImgWidth"`
	HeroImgOffsetY  int    `json:"heroImgOffsetY"`
	HeroImgScale    int    `json:"heroImgScale"`
	HeroVideoWidth  int    `json:"heroVideoWidth"`
	HeroVideoHeight int    `json:"heroVideoHeight"`
}

type intKnob struct {
	field control.Field
	def   int
	set   func(*Styles, int)
}

func knob(name, file, key string, def int, set func(*Styles, int)) intKnob {
	return intKnob{field: field(name, designDir+"/"+file, key, sectionStyling, ""), def: def, set: set}
}

var intKnobs = []intKnob{
	knob("hero title size", "HERO_FONT_SIZE_PX.txt", "**Hero Title Size:**", 120, func(s *Styles, n int) { s.HeroTitleSize = n }),
	knob("button padding x", "BUTTON_PADDING_X_PX.txt", "**Button Padding X:**", 64, func(s *Styles, n int) { s.ButtonPaddingX = n }),
	knob("button padding y", "BUTTON_PADDING_Y_PX.txt", "**Button Padding Y:**", 32, func(s *Styles, n int) { s.ButtonPaddingY = n }),
	knob("button text size", "BUTTON_TEXT_SIZE_PX.txt", "**Button Text Size:**", 32, func(s *Styles, n int) { s.ButtonTextSize = n }),
	knob("section spacing", "SECTION_SPACING_PX.txt", "**Section Spacing:**", 160, func(s *Styles, n int) { s.SectionSpacing = n }),
	knob("border radius", "CORNER_ROUNDNESS_PX.txt", "**Border Radius:**", 32, func(s *Styles, n int) { s.BorderRadius = n }),
	knob("hero image width", "HERO_IMG_WIDTH.txt", "**Hero Img Width:**", 100, func(s *Styles, n int) { s.HeroImgWidth = n }),
	knob("hero image offset y", "HERO_IMG_OFFSET_Y.txt", "**Hero Img Offset Y:**", 0, func(s *Styles, n int) { s.HeroImgOffsetY = n }),
	knob("hero image scale", "HERO_IMG_SCALE.txt", "**Hero Img Scale:**", 100, func(s *Styles, n int) { s.HeroImgScale = n }),
	knob("hero video width", "HERO_VIDEO_WIDTH.txt", "**Hero Video Width (px):**", 0, func(s *Styles, n int) { s.HeroVideoWidth = n }),
	knob("hero video height", "HERO_VIDEO_HEIGHT.txt", "**Hero Video Height (px):**", 0, func(s *Styles, n int) { s.HeroVideoHeight = n }),
}

var (
	FieldBrandLogo      = field("brand logo", designDir+"/BRAND_LOGO.txt", "**Brand Logo:**", sectionStyling, "")
	FieldHeroBackground = field("hero background", designDir+"/HERO_BACKGROUND.txt", "**Hero Background:**", sectionStyling, "")
)

// ResolveStyles resolves every knob independently with its numeric default.
func ResolveStyles(r *control.Resolver) Styles {
	var s Styles
	for _, k := range intKnobs {
		k.set(&s, r.ResolveInt(k.field, k.def))
	}
	s.BrandLogo = r.Resolve(FieldBrandLogo)
	s.HeroBackground = r.Resolve(FieldHeroBackground)
	return s
}
