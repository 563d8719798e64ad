package models

// AppConfig глобальные настройки приложения. Хранится одним JSON-документом.
// AdminPasswordHash никогда не отдаётся наружу.
type AppConfig struct {
	IsFreeApp         bool   `json:"isFreeApp"`
	EnableAds         bool   `json:"enableAds"`
	AdProvider        string `json:"adProvider"`
	AdsterraKey       string `json:"adsterraKey"`
	GoogleAdsClient   string `json:"googleAdsClient"`
	WeeklyPrice       int    `json:"weeklyPrice"`
	MonthlyPrice      int    `json:"monthlyPrice"`
	YearlyPrice       int    `json:"yearlyPrice"`
	AppName           string `json:"appName"`
	AppTagline        string `json:"appTagline"`
	AppLogo           string `json:"appLogo"`
	AdminUsername     string `json:"adminUsername"`
	AdminDisplayName  string `json:"adminDisplayName"`
	AdminPasswordHash string `json:"adminPasswordHash,omitempty"`
}

// DefaultAppConfig настройки по умолчанию. Пароль администратора по умолчанию: "admin",
// его хэш вычисляется при первом обращении к хранилищу.
func DefaultAppConfig() AppConfig {
	return AppConfig{
		IsFreeApp:        false,
		EnableAds:        true,
		AdProvider:       "adsterra",
		WeeklyPrice:      3000,
		MonthlyPrice:     10000,
		YearlyPrice:      100000,
		AppName:          "Drama Short",
		AppTagline:       "By Amue Devs",
		AppLogo:          "/logo.png",
		AdminUsername:    "admin",
		AdminDisplayName: "Admin Premium",
	}
}

// Public возвращает копию без секретов.
func (c AppConfig) Public() AppConfig {
	c.AdminPasswordHash = ""
	return c
}

// DummyAppConfig частичное обновление конфигурации: nil-поля не меняются.
// AdminPassword передаётся открытым текстом и сохраняется только в виде хэша.
type DummyAppConfig struct {
	IsFreeApp        *bool   `json:"isFreeApp"`
	EnableAds        *bool   `json:"enableAds"`
	AdProvider       *string `json:"adProvider" validate:"omitempty,oneof=google adsterra"`
	AdsterraKey      *string `json:"adsterraKey"`
	GoogleAdsClient  *string `json:"googleAdsClient"`
	WeeklyPrice      *int    `json:"weeklyPrice" validate:"omitempty,gte=0"`
	MonthlyPrice     *int    `json:"monthlyPrice" validate:"omitempty,gte=0"`
	YearlyPrice      *int    `json:"yearlyPrice" validate:"omitempty,gte=0"`
	AppName          *string `json:"appName" validate:"omitempty,min=1"`
	AppTagline       *string `json:"appTagline"`
	AppLogo          *string `json:"appLogo"`
	AdminUsername    *string `json:"adminUsername" validate:"omitempty,min=3"`
	AdminPassword    *string `json:"adminPassword" validate:"omitempty,min=4"`
	AdminDisplayName *string `json:"adminDisplayName"`
}

// Apply применяет непустые поля к cfg. Пароль обрабатывается отдельно.
func (d DummyAppConfig) Apply(cfg *AppConfig) {
	setBool(&cfg.IsFreeApp, d.IsFreeApp)
	setBool(&cfg.EnableAds, d.EnableAds)
	setString(&cfg.AdProvider, d.AdProvider)
	setString(&cfg.AdsterraKey, d.AdsterraKey)
	setString(&cfg.GoogleAdsClient, d.GoogleAdsClient)
	setInt(&cfg.WeeklyPrice, d.WeeklyPrice)
	setInt(&cfg.MonthlyPrice, d.MonthlyPrice)
	setInt(&cfg.YearlyPrice, d.YearlyPrice)
	setString(&cfg.AppName, d.AppName)
	setString(&cfg.AppTagline, d.AppTagline)
	setString(&cfg.AppLogo, d.AppLogo)
	setString(&cfg.AdminUsername, d.AdminUsername)
	setString(&cfg.AdminDisplayName, d.AdminDisplayName)
}

func setBool(dst *bool, v *bool) {
	if v != nil {
		*dst = *v
	}
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

func setInt(dst *int, v *int) {
	if v != nil {
		*dst = *v
	}
}
