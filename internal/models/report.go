package models

// CityReport — строка отчёта по пользователям, сгруппированным по городу.
type CityReport struct {
	City             string       `json:"city"`
	UsersCount       int          `json:"count"`
	Users            []ReportUser `json:"users"`
	AmountOfArticles int          `json:"amount_of_articles"`
}

// ReportUser — публичные поля пользователя в отчёте.
type ReportUser struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
