package backoffice

// Logo asset paths relative to the asset base URL.
const (
	LightLogoPath = "public/resources/logolight.jpg"
	DarkLogoPath  = "public/resources/logodark.jpg"
)

// ThemeAssets carries the theme dependent pieces of the header.
type ThemeAssets struct {
	Theme     Theme  `json:"theme"`
	BodyClass string `json:"body_class"`
	Icon      string `json:"icon"`
	LogoLight string `json:"logo_light"`
	LogoDark  string `json:"logo_dark"`
	Logo      string `json:"logo"`
}

// ThemeIcon is the toggle icon: a sun while dark, a moon otherwise.
func ThemeIcon(theme Theme) string {
	if theme == ThemeDark {
		return "fas fa-sun"
	}
	return "fas fa-moon"
}

// ResolveThemeAssets joins the logos onto the asset base URL and picks the one
// matching the theme.
func ResolveThemeAssets(baseURL string, theme Theme) ThemeAssets {
	assets := ThemeAssets{
		Theme:     theme,
		BodyClass: theme.BodyClass(),
		Icon:      ThemeIcon(theme),
		LogoLight: JoinURL(baseURL, LightLogoPath),
		LogoDark:  JoinURL(baseURL, DarkLogoPath),
	}
	assets.Logo = assets.LogoLight
	if theme == ThemeDark {
		assets.Logo = assets.LogoDark
	}
	return assets
}
