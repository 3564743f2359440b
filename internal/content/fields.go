// Package content turns a control tree into the product content a page is
// generated from: hero copy, chapters, pricing plans and style knobs.
package content

import "sitesync/internal/control"

// Override folders under the control root.
const (
	heroDir     = "1_HERO_AND_HEADER"
	ChaptersDir = "2_NARRATIVE_CHAPTERS"
	designDir   = "3_DESIGN_STUDIO"
	finalDir    = "4_FINAL_CONVERSION"
)

// Sections of the control document.
const (
	sectionHero    = "Hero Section"
	sectionStyling = "UI & Styling"
	sectionVision  = "Demo & Vision"
	sectionFinal   = "Final CTA"
	sectionTech    = "Tech Stack"
	sectionPricing = "Pricing"
)

func field(name, file, key, section, def string) control.Field {
	return control.Field{Name: name, File: file, Key: key, Section: section, Default: def}
}

var (
	FieldHeroTitle         = field("hero title", heroDir+"/TITLE.txt", "**Title:**", sectionHero, "")
	FieldHeroSubtitle      = field("hero subtitle", heroDir+"/SUBTITLE.txt", "**Subtitle:**", sectionHero, "")
	FieldCTAPrimaryLabel   = field("cta primary label", heroDir+"/BTN_PRIMARY_TEXT.txt", "**CTA Primary Label:**", sectionHero, "Download Now")
	FieldCTAPrimaryLink    = field("cta primary link", heroDir+"/BTN_PRIMARY_LINK.txt", "**CTA Primary Link:**", sectionHero, "#")
	FieldCTASecondaryLabel = field("cta secondary label", heroDir+"/BTN_SECONDARY_TEXT.txt", "**CTA Secondary Label:**", sectionHero, "Learn More")
	FieldCTASecondaryLink  = field("cta secondary link", heroDir+"/BTN_SECONDARY_LINK.txt", "**CTA Secondary Link:**", sectionHero, "#")

	FieldVisionCaption    = field("vision caption", finalDir+"/CAPTION.txt", "**Caption:**", sectionVision, "")
	FieldFinalTitle       = field("final cta title", finalDir+"/TITLE.txt", "**Title:**", sectionFinal, "")
	FieldFinalSubtitle    = field("final cta subtitle", finalDir+"/SUBTITLE.txt", "**Subtitle:**", sectionFinal, "")
	FieldFinalButtonLabel = field("final cta button label", finalDir+"/BUTTON_TEXT.txt", "**Button Label:**", sectionFinal, "Get Started")
	FieldFinalButtonLink  = field("final cta button link", finalDir+"/BUTTON_LINK.txt", "**Button Link:**", sectionFinal, "#")

	FieldScreenshotsPath = field("screenshots path", designDir+"/SCREENSHOTS_PATH.txt", "**Screenshots Path:**", sectionStyling, "screenshots")
	FieldCardImage       = field("card image", designDir+"/CARD_IMAGE.txt", "**Card Image:**", sectionStyling, "")
	FieldHeroImage       = field("hero image", designDir+"/HERO_IMAGE.txt", "**Hero Image:**", sectionStyling, "")
)

// Hero is the copy of the page's opening section.
type Hero struct {
	Title          string `json:"title"`
	Subtitle       string `json:"subtitle"`
	PrimaryLabel   string `json:"primaryLabel"`
	PrimaryLink    string `json:"primaryLink"`
	SecondaryLabel string `json:"secondaryLabel"`
	SecondaryLink  string `json:"secondaryLink"`
}

// FinalCTA is the closing conversion block.
type FinalCTA struct {
	Title       string `json:"title"`
	Subtitle    string `json:"subtitle"`
	ButtonLabel string `json:"buttonLabel"`
	ButtonLink  string `json:"buttonLink"`
}

// AssetOverrides are explicit choices for the screenshot source and the
// designated image slots. Empty values mean "pick automatically".
type AssetOverrides struct {
	ScreenshotsPath string
	CardImage       string
	HeroImage       string
}

func resolveHero(r *control.Resolver) Hero {
	return Hero{
		Title:          r.Resolve(FieldHeroTitle),
		Subtitle:       r.Resolve(FieldHeroSubtitle),
		PrimaryLabel:   r.Resolve(FieldCTAPrimaryLabel),
		PrimaryLink:    r.Resolve(FieldCTAPrimaryLink),
		SecondaryLabel: r.Resolve(FieldCTASecondaryLabel),
		SecondaryLink:  r.Resolve(FieldCTASecondaryLink),
	}
}

func resolveFinal(r *control.Resolver) FinalCTA {
	return FinalCTA{
		Title:       r.Resolve(FieldFinalTitle),
		Subtitle:    r.Resolve(FieldFinalSubtitle),
		ButtonLabel: r.Resolve(FieldFinalButtonLabel),
		ButtonLink:  r.Resolve(FieldFinalButtonLink),
	}
}

// ResolveAssetOverrides is exposed separately because asset copying runs
// before the rest of the content is needed.
func ResolveAssetOverrides(r *control.Resolver) AssetOverrides {
	return AssetOverrides{
		ScreenshotsPath: r.Resolve(FieldScreenshotsPath),
		CardImage:       r.Resolve(FieldCardImage),
		HeroImage:       r.Resolve(FieldHeroImage),
	}
}
