package model

// PricingSettings is a user's price list: a price per rental length of one to seven days
// plus a rate for every day past the seventh.
type PricingSettings struct {
	UserID   int64   `gorm:"primaryKey" json:"-"`
	Day1     float64 `gorm:"column:day_1;not null" json:"day_1"`
	Day2     float64 `gorm:"column:day_2;not null" json:"day_2"`
	Day3     float64 `gorm:"column:day_3;not null" json:"day_3"`
	Day4     float64 `gorm:"column:day_4;not null" json:"day_4"`
	Day5     float64 `gorm:"column:day_5;not null" json:"day_5"`
	Day6     float64 `gorm:"column:day_6;not null" json:"day_6"`
	Day7     float64 `gorm:"column:day_7;not null" json:"day_7"`
	ExtraDay float64 `gorm:"column:extra_day;not null" json:"extra_day"`
}

// DefaultPricing returns the price list every new account starts with.
func DefaultPricing(userID int64) PricingSettings {
	return PricingSettings{
		UserID:   userID,
		Day1:     50,
		Day2:     90,
		Day3:     130,
		Day4:     170,
		Day5:     200,
		Day6:     230,
		Day7:     250,
		ExtraDay: 20,
	}
}

// Tier returns the price for a rental of days (1..7). Other values return 0.
func (p PricingSettings) Tier(days int) float64 {
	tiers := [...]float64{p.Day1, p.Day2, p.Day3, p.Day4, p.Day5, p.Day6, p.Day7}
	if days < 1 || days > len(tiers) {
		return 0
	}
	return tiers[days-1]
}
