package plaace

import (
	"regexp"

	"github.com/justaride/sundland-pipeline/internal/domain"
)

// Dataset shapes written under the plaace output directory. Every record in
// an output array has the same field set; nil means the source cell was
// empty or "-".

// Demographics covers the resident population of the study area.
type Demographics struct {
	AgeDistribution    []AgeBucket       `json:"ageDistribution"`
	Buildings          []CountBucket     `json:"buildings"`
	Households         []CountBucket     `json:"households"`
	IncomeDistribution []IncomeBucket    `json:"incomeDistribution"`
	MedianIncome       []MedianIncome    `json:"medianIncome"`
	PopulationTrend    []PopulationPoint `json:"populationTrend"`
}

type AgeBucket struct {
	Group  string   `json:"group"`
	Male   *float64 `json:"male"`
	Female *float64 `json:"female"`
}

type CountBucket struct {
	Type  string   `json:"type"`
	Count *float64 `json:"count"`
}

type IncomeBucket struct {
	Bracket string   `json:"bracket"`
	Count   *float64 `json:"count"`
}

type MedianIncome struct {
	Type   string   `json:"type"`
	Amount *float64 `json:"amount"`
}

type PopulationPoint struct {
	Year       int      `json:"year"`
	Population *float64 `json:"population"`
	Trendline  *float64 `json:"trendline"`
}

// Visitors covers movement data for people visiting the area.
type Visitors struct {
	AgeDistribution []AgeBucket     `json:"ageDistribution"`
	Buildings       []CountBucket   `json:"buildings"`
	Households      []CountBucket   `json:"households"`
	Income          []IncomeBucket  `json:"income"`
	MedianIncome    []MedianIncome  `json:"medianIncome"`
	Hourly          []HourlyVisits  `json:"hourly"`
	Weekday         []WeekdayVisits `json:"weekday"`
	Quarterly       []QuarterVisits `json:"quarterly"`
	Origins         []Origin        `json:"origins"`
}

// HourlyVisits is one hour slot split by visit purpose.
type HourlyVisits struct {
	Hour     string   `json:"hour"`
	Visitors *float64 `json:"visitors"`
	Work     *float64 `json:"work"`
	Home     *float64 `json:"home"`
}

// WeekdayVisits is one weekday split by visit purpose.
type WeekdayVisits struct {
	Day      string   `json:"day"`
	Visitors *float64 `json:"visitors"`
	Work     *float64 `json:"work"`
	Home     *float64 `json:"home"`
}

type QuarterVisits struct {
	Quarter      string   `json:"quarter"`
	Visitors2023 *float64 `json:"visitors2023"`
	Visitors2024 *float64 `json:"visitors2024"`
	Visitors2025 *float64 `json:"visitors2025"`
	Work2023     *float64 `json:"work2023"`
	Work2024     *float64 `json:"work2024"`
	Work2025     *float64 `json:"work2025"`
	Home2023     *float64 `json:"home2023"`
	Home2024     *float64 `json:"home2024"`
	Home2025     *float64 `json:"home2025"`
}

type Origin struct {
	Area       string  `json:"area"`
	Visits     int     `json:"visits"`
	Percentage float64 `json:"percentage"`
}

// Commerce bundles the store list with area-level commerce metrics.
type Commerce struct {
	Stores                  []domain.Store  `json:"stores"`
	CategoryMix             []CategoryShare `json:"categoryMix"`
	ChainVsIndependent      []ChainSplit    `json:"chainVsIndependent"`
	OverUnderRepresentation []CategoryValue `json:"overUnderRepresentation"`
}

type CategoryShare struct {
	Level1     string   `json:"level1"`
	Level2     string   `json:"level2"`
	Percentage *float64 `json:"percentage"`
}

type ChainSplit struct {
	Year        int      `json:"year"`
	Independent *float64 `json:"independent"`
	Chain       *float64 `json:"chain"`
}

type CategoryValue struct {
	Category string   `json:"category"`
	Value    *float64 `json:"value"`
}

// CardTransactions covers aggregate card-payment volumes.
type CardTransactions struct {
	Weekly    []WeeklyCard  `json:"weekly"`
	ByWeekday []WeekdayCard `json:"byWeekday"`
}

type WeeklyCard struct {
	Week   string   `json:"week"`
	Amount *float64 `json:"amount"`
	Date   string   `json:"date"`
}

type WeekdayCard struct {
	Day   string   `json:"day"`
	Y2019 *float64 `json:"2019"`
	Y2020 *float64 `json:"2020"`
	Y2021 *float64 `json:"2021"`
	Y2022 *float64 `json:"2022"`
	Y2023 *float64 `json:"2023"`
	Y2024 *float64 `json:"2024"`
	Y2025 *float64 `json:"2025"`
	Y2026 *float64 `json:"2026"`
}

// Growth covers revenue growth series for the area and its comparisons.
type Growth struct {
	AnnualGrowth        []AnnualGrowth  `json:"annualGrowth"`
	IndexedGrowth       []IndexedPoint  `json:"indexedGrowth"`
	CategoryDevelopment []CategoryTrend `json:"categoryDevelopment"`
}

type AnnualGrowth struct {
	Year         int      `json:"year"`
	GulskogenPct *float64 `json:"gulskogenPct"`
	GulskogenNok *float64 `json:"gulskogenNok"`
	DrammenPct   *float64 `json:"drammenPct"`
	DrammenNok   *float64 `json:"drammenNok"`
	NorwayPct    *float64 `json:"norwayPct"`
	NorwayNok    *float64 `json:"norwayNok"`
}

type IndexedPoint struct {
	Date  string   `json:"date"`
	Value *float64 `json:"value"`
}

type CategoryTrend struct {
	Year     int      `json:"year"`
	Dining   *float64 `json:"dining"`
	Retail   *float64 `json:"retail"`
	Services *float64 `json:"services"`
}

// KeyMetrics is the derived headline panel for the dashboard.
type KeyMetrics struct {
	Area         string         `json:"area"`
	Demography   DemographyKPIs `json:"demography"`
	Movement     MovementKPIs   `json:"movement"`
	CardActivity CardKPIs       `json:"cardTransactions"`
}

type DemographyKPIs struct {
	Population float64 `json:"population"`
	Density    float64 `json:"density"`
	AreaKm2    float64 `json:"area"`
}

type MovementKPIs struct {
	DailyVisits float64 `json:"dailyVisits"`
	PerKm2      float64 `json:"perKm2"`
	BusiestDay  string  `json:"busiestDay"`
}

type CardKPIs struct {
	WeeklyAvg    float64 `json:"weeklyAvg"`
	TotalStores  int     `json:"totalStores"`
	TotalRevenue float64 `json:"totalRevenue"`
}

// --- builders ---

func buildAgeDistribution(t *Table, round bool) []AgeBucket {
	var out []AgeBucket
	for _, r := range t.Rows() {
		b := AgeBucket{Group: r.Get("Category"), Male: ToNum(r.At(1)), Female: ToNum(r.At(2))}
		if round {
			b.Male = Round(b.Male, 0)
			b.Female = Round(b.Female, 0)
		}
		out = append(out, b)
	}
	return out
}

func buildCountBuckets(t *Table, round bool) []CountBucket {
	var out []CountBucket
	for _, r := range t.Rows() {
		c := ToNum(r.At(1))
		if round {
			c = Round(c, 0)
		}
		out = append(out, CountBucket{Type: r.Get("Category"), Count: c})
	}
	return out
}

func buildIncomeBuckets(t *Table) []IncomeBucket {
	var out []IncomeBucket
	for _, r := range t.Rows() {
		out = append(out, IncomeBucket{Bracket: r.Get("Category"), Count: Round(ToNum(r.At(1)), 0)})
	}
	return out
}

func buildMedianIncome(t *Table) []MedianIncome {
	var out []MedianIncome
	for _, r := range t.Rows() {
		out = append(out, MedianIncome{Type: r.Get("Category"), Amount: Round(ToNum(r.At(1)), 0)})
	}
	return out
}

func buildPopulationTrend(t *Table) []PopulationPoint {
	var out []PopulationPoint
	for _, r := range t.Rows() {
		out = append(out, PopulationPoint{
			Year:       ToInt(r.Get("Category")),
			Population: ToNum(r.At(1)),
			Trendline:  Round(ToNum(r.At(2)), 1),
		})
	}
	return out
}

func buildHourly(t *Table) []HourlyVisits {
	var out []HourlyVisits
	for _, r := range t.Rows() {
		out = append(out, HourlyVisits{
			Hour:     r.At(0),
			Visitors: ToNum(r.At(1)),
			Work:     ToNum(r.At(2)),
			Home:     ToNum(r.At(3)),
		})
	}
	return out
}

func buildWeekday(t *Table) []WeekdayVisits {
	var out []WeekdayVisits
	for _, r := range t.Rows() {
		out = append(out, WeekdayVisits{
			Day:      r.At(0),
			Visitors: ToNum(r.At(1)),
			Work:     ToNum(r.At(2)),
			Home:     ToNum(r.At(3)),
		})
	}
	return out
}

func buildQuarterly(t *Table) []QuarterVisits {
	var out []QuarterVisits
	for _, r := range t.Rows() {
		out = append(out, QuarterVisits{
			Quarter:      r.At(0),
			Visitors2023: ToNum(r.At(1)),
			Visitors2024: ToNum(r.At(2)),
			Visitors2025: ToNum(r.At(3)),
			Work2023:     ToNum(r.At(4)),
			Work2024:     ToNum(r.At(5)),
			Work2025:     ToNum(r.At(6)),
			Home2023:     ToNum(r.At(7)),
			Home2024:     ToNum(r.At(8)),
			Home2025:     ToNum(r.At(9)),
		})
	}
	return out
}

// buildOrigins consumes the semicolon-CSV visitor-origins rows, dropping
// blank and "no_name" areas and rows without a parsable visit count.
func buildOrigins(rows [][]string) []Origin {
	var out []Origin
	for _, r := range rows {
		if len(r) < 3 || r[0] == "" || r[0] == "no_name" {
			continue
		}
		visits := ToNum(r[1])
		if visits == nil {
			continue
		}
		out = append(out, Origin{
			Area:       r[0],
			Visits:     int(*visits),
			Percentage: orZero(ToNum(r[2])),
		})
	}
	return out
}

func buildCategoryMix(t *Table) []CategoryShare {
	var out []CategoryShare
	for _, r := range t.Rows() {
		out = append(out, CategoryShare{
			Level1:     r.At(1),
			Level2:     r.At(2),
			Percentage: ToNum(r.At(3)),
		})
	}
	return out
}

func buildChainSplit(t *Table) []ChainSplit {
	var out []ChainSplit
	for _, r := range t.Rows() {
		out = append(out, ChainSplit{
			Year:        ToInt(r.Get("Category")),
			Independent: Round(ToNum(r.At(1)), 2),
			Chain:       Round(ToNum(r.At(2)), 2),
		})
	}
	return out
}

// buildOverUnder keeps the first non-null of the three value columns; the
// export places each category's value in the column for its segment.
func buildOverUnder(t *Table) []CategoryValue {
	var out []CategoryValue
	for _, r := range t.Rows() {
		value := ToNum(r.At(1))
		if value == nil {
			value = ToNum(r.At(2))
		}
		if value == nil {
			value = ToNum(r.At(3))
		}
		out = append(out, CategoryValue{Category: r.At(0), Value: Round(value, 2)})
	}
	return out
}

func buildWeeklyCards(t *Table) []WeeklyCard {
	var out []WeeklyCard
	for _, r := range t.Rows() {
		out = append(out, WeeklyCard{Week: r.At(0), Amount: ToNum(r.At(2)), Date: r.At(3)})
	}
	return out
}

func buildWeekdayCards(t *Table) []WeekdayCard {
	var out []WeekdayCard
	for _, r := range t.Rows() {
		out = append(out, WeekdayCard{
			Day:   r.At(0),
			Y2019: ToNum(r.At(1)),
			Y2020: ToNum(r.At(2)),
			Y2021: ToNum(r.At(3)),
			Y2022: ToNum(r.At(4)),
			Y2023: ToNum(r.At(5)),
			Y2024: ToNum(r.At(6)),
			Y2025: ToNum(r.At(7)),
			Y2026: ToNum(r.At(8)),
		})
	}
	return out
}

func buildAnnualGrowth(t *Table) []AnnualGrowth {
	var out []AnnualGrowth
	for _, r := range t.Rows() {
		out = append(out, AnnualGrowth{
			Year:         ToInt(r.At(0)),
			GulskogenPct: ToNum(r.At(2)),
			GulskogenNok: Round(ToNum(r.At(3)), 2),
			DrammenPct:   ToNum(r.At(5)),
			DrammenNok:   Round(ToNum(r.At(6)), 2),
			NorwayPct:    ToNum(r.At(8)),
			NorwayNok:    Round(ToNum(r.At(9)), 2),
		})
	}
	return out
}

// indexedDateRe matches the export's "Month D, YYYY" date labels.
var indexedDateRe = regexp.MustCompile(`(\w+)\s+(\d+),\s+(\d+)`)

var monthNumbers = map[string]string{
	"January": "01", "February": "02", "March": "03", "April": "04",
	"May": "05", "June": "06", "July": "07", "August": "08",
	"September": "09", "October": "10", "November": "11", "December": "12",
}

func buildIndexedGrowth(t *Table) []IndexedPoint {
	var out []IndexedPoint
	for _, r := range t.Rows() {
		out = append(out, IndexedPoint{
			Date:  toISODate(r.At(0)),
			Value: Round(ToNum(r.At(1)), 2),
		})
	}
	return out
}

// toISODate converts "March 4, 2024" to "2024-03-04". Unmatched labels map
// to "" rather than failing the dataset.
func toISODate(label string) string {
	m := indexedDateRe.FindStringSubmatch(label)
	if m == nil {
		return ""
	}
	month, ok := monthNumbers[m[1]]
	if !ok {
		month = "01"
	}
	day := m[2]
	if len(day) == 1 {
		day = "0" + day
	}
	return m[3] + "-" + month + "-" + day
}

func buildCategoryDevelopment(t *Table) []CategoryTrend {
	var out []CategoryTrend
	for _, r := range t.Rows() {
		out = append(out, CategoryTrend{
			Year:     ToInt(r.Get("Category")),
			Dining:   Round(ToNum(r.At(1)), 2),
			Retail:   Round(ToNum(r.At(2)), 2),
			Services: Round(ToNum(r.At(3)), 2),
		})
	}
	return out
}
