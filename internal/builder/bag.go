// internal/builder/bag.go
package builder

import (
	"sitesync/internal/compose"
	"sitesync/internal/remote"
)

// Bag builds the complete data bag for one run. Values are final strings or
// structures the compositor encodes as JSON. Plain text is escaped for the
// context it lands in: JSX text, JSX attributes or quoted script strings.
// No escaped value contains a placeholder token.
func Bag(in Input) (compose.Bag, error) {
	d, err := Derive(in)
	if err != nil {
		return nil, err
	}
	c := in.Content
	p := in.Project

	pricing := in.Remote.Pricing
	if pricing == nil {
		pricing = map[string]remote.Currency{}
	}
	email := firstNonEmpty(in.Remote.SupportEmail, in.Support.Email)
	phone := firstNonEmpty(in.Remote.SupportPhone, in.Support.Phone)

	return compose.Bag{
		compose.MetaTitle:           jsString(p.Name + " | " + p.Brand),
		compose.MetaDescription:     jsString(c.Hero.Subtitle),
		compose.PricingDataJSON:     pricing,
		compose.PlanStructureJSON:   c.Plans,
		compose.HeroBackground:      d.HeroBackground,
		compose.BrandLogo:           d.Brand,
		compose.HeroTitleHTML:       d.HeroTitle,
		compose.HeroSubtitle:        jsxText(c.Hero.Subtitle),
		compose.CTAPrimaryLink:      jsxAttr(c.Hero.PrimaryLink),
		compose.CTAPrimaryLabel:     jsxText(c.Hero.PrimaryLabel),
		compose.CTASecondaryLink:    jsxAttr(c.Hero.SecondaryLink),
		compose.CTASecondaryLabel:   jsxText(c.Hero.SecondaryLabel),
		compose.Slug:                jsxAttr(p.Slug),
		compose.HeroImage:           d.HeroImage,
		compose.ChaptersHTML:        d.Chapters,
		compose.VisionSectionHTML:   d.Vision,
		compose.FinalCTATitle:       jsxText(c.Final.Title),
		compose.FinalCTASubtitle:    jsxText(c.Final.Subtitle),
		compose.FinalCTAButtonLink:  jsxAttr(c.Final.ButtonLink),
		compose.FinalCTAButtonLabel: jsxText(c.Final.ButtonLabel),
		compose.Year:                in.Now.Year(),
		compose.BrandName:           jsxText(p.Brand),
		compose.SupportEmail:        jsxText(email),
		compose.SupportPhone:        jsxText(phone),
		compose.StylesJSON:          c.Styles,
		compose.ProjectName:         jsString(p.Name),
		compose.ProjectStatus:       jsxText(p.Status),
		compose.ProjectCategory:     jsxText(p.Category),
		compose.TechStackHTML:       d.TechStack,
		compose.TechStackJSON:       c.TechStack,

		compose.FirebaseAPIKey:            jsString(in.Firebase.APIKey),
		compose.FirebaseAuthDomain:        jsString(in.Firebase.AuthDomain),
		compose.FirebaseProjectID:         jsString(in.Firebase.ProjectID),
		compose.FirebaseStorageBucket:     jsString(in.Firebase.StorageBucket),
		compose.FirebaseMessagingSenderID: jsString(in.Firebase.MessagingSenderID),
		compose.FirebaseAppID:             jsString(in.Firebase.AppID),
	}, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
