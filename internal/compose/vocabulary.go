package compose

// Placeholder names understood by generated pages.
const (
	MetaTitle           = "META_TITLE"
	MetaDescription     = "META_DESCRIPTION"
	PricingDataJSON     = "PRICING_DATA_JSON"
	PlanStructureJSON   = "PLAN_STRUCTURE_JSON"
	HeroBackground      = "HERO_BACKGROUND_ELEMENT"
	BrandLogo           = "BRAND_LOGO_ELEMENT"
	HeroTitleHTML       = "HERO_TITLE_HTML"
	HeroSubtitle        = "HERO_SUBTITLE"
	CTAPrimaryLink      = "CTA_PRIMARY_LINK"
	CTAPrimaryLabel     = "CTA_PRIMARY_LABEL"
	CTASecondaryLink    = "CTA_SECONDARY_LINK"
	CTASecondaryLabel   = "CTA_SECONDARY_LABEL"
	Slug                = "SLUG"
	HeroImage           = "HERO_IMAGE_ELEMENT"
	ChaptersHTML        = "CHAPTERS_HTML"
	VisionSectionHTML   = "VISION_SECTION_HTML"
	FinalCTATitle       = "FINAL_CTA_TITLE"
	FinalCTASubtitle    = "FINAL_CTA_SUBTITLE"
	FinalCTAButtonLink  = "FINAL_CTA_BUTTON_LINK"
	FinalCTAButtonLabel = "FINAL_CTA_BUTTON_LABEL"
	Year                = "YEAR"
	BrandName           = "BRAND_NAME"
	SupportEmail        = "SUPPORT_EMAIL"
	SupportPhone        = "SUPPORT_PHONE"
	StylesJSON          = "STYLES_JSON"
	ProjectName         = "PROJECT_NAME"
	ProjectStatus       = "PROJECT_STATUS"
	ProjectCategory     = "PROJECT_CATEGORY"
	TechStackHTML       = "TECH_STACK_HTML"
	TechStackJSON       = "TECH_STACK_JSON"

	FirebaseAPIKey            = "FIREBASE_API_KEY"
	FirebaseAuthDomain        = "FIREBASE_AUTH_DOMAIN"
	FirebaseProjectID         = "FIREBASE_PROJECT_ID"
	FirebaseStorageBucket     = "FIREBASE_STORAGE_BUCKET"
	FirebaseMessagingSenderID = "FIREBASE_MESSAGING_SENDER_ID"
	FirebaseAppID             = "FIREBASE_APP_ID"
)

// Vocabulary is the fixed placeholder schema templates are checked against.
var Vocabulary = map[string]bool{
	MetaTitle: true, MetaDescription: true, PricingDataJSON: true, PlanStructureJSON: true,
	HeroBackground: true, BrandLogo: true, HeroTitleHTML: true, HeroSubtitle: true,
	CTAPrimaryLink: true, CTAPrimaryLabel: true, CTASecondaryLink: true, CTASecondaryLabel: true,
	Slug: true, HeroImage: true, ChaptersHTML: true, VisionSectionHTML: true,
	FinalCTATitle: true, FinalCTASubtitle: true, FinalCTAButtonLink: true, FinalCTAButtonLabel: true,
	Year: true, BrandName: true, SupportEmail: true, SupportPhone: true, StylesJSON: true,
	ProjectName: true, ProjectStatus: true, ProjectCategory: true, TechStackHTML: true, TechStackJSON: true,
	FirebaseAPIKey: true, FirebaseAuthDomain: true, FirebaseProjectID: true,
	FirebaseStorageBucket: true, FirebaseMessagingSenderID: true, FirebaseAppID: true,
}
