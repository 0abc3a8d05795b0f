// Package plaace normalizes the heterogeneous CSV files of a Plaace
// analytics export into the uniform JSON datasets the dashboard consumes.
// The normalizer is deterministic and side-effect free: same input bytes,
// same output, no network.
package plaace

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// Export file names as they appear in the Plaace download.
const (
	fileAgeDistribution = "Aldersfordeling.csv"
	fileBuildings       = "Antall hus.csv"
	fileHouseholds      = "Antall husholdninger.csv"
	fileIncome          = "Inntektsfordeling.csv"
	fileMedianIncome    = "Medianinntekt per husholdningstype.csv"
	filePopulationTrend = "Demografi over tid.csv"
	fileVisAge          = "Alders- og kjønnsfordeling (besøkende).csv"
	fileVisBuildings    = "Antall hus (besøkende).csv"
	fileVisHouseholds   = "Husholdningstypefordeling (besøkende).csv"
	fileVisIncome       = "Inntektsfordeling (besøkende).csv"
	fileVisMedianIncome = "Medianinntekt per husholdningstype (besøkende).csv"
	fileHourlyVisits    = "Besøk per time i tidsperioden (daglig gjennomsnitt).csv"
	fileWeekdayVisits   = "Besøk per ukedag i tidsperioden (daglig gjennomsnitt).csv"
	fileQuarterlyVisits = "Bevegelsesmønster (gjennomsnittlig daglige besøk).csv"
	fileOrigins         = "Omrader_besokende_kommer_fra.csv"
	fileRevenueExport   = "Estimert omsetning (eks mva) fra fysiske utsalgssteder - Sheet1.csv"
	fileCategoryMix     = "Konseptmiks.csv"
	fileChainSplit      = "Kjeder vs. uavhengige konsepter.csv"
	fileOverUnder       = "Over- og underandel vs. kommune.csv"
	fileWeeklyCards     = "Korthandel i valgt tidsrom.csv"
	fileWeekdayCards    = "Korthandel per ukedag.csv"
	fileAnnualGrowth    = "Årlig vekst.csv"
	fileIndexedGrowth   = "Indeksert vekst (indeks = 100).csv"
	fileCategoryTrend   = "Utvikling per år.csv"
)

// studyAreaKm2 is the fixed size of the Gulskogen stasjon / Sundland study
// area used for density figures.
const studyAreaKm2 = 2.23

// Datasets is the full normalized output of one export.
type Datasets struct {
	Demographics     Demographics
	Visitors         Visitors
	Commerce         Commerce
	CardTransactions CardTransactions
	Growth           Growth
	KeyMetrics       KeyMetrics
}

// Normalizer reads a Plaace export directory and builds the output datasets.
type Normalizer struct {
	dir    string
	logger *slog.Logger
}

// NewNormalizer creates a Normalizer over the given export directory.
func NewNormalizer(dir string, logger *slog.Logger) *Normalizer {
	return &Normalizer{dir: dir, logger: logger}
}

// Run parses every export file and assembles the datasets. A missing or
// unreadable file is catastrophic and aborts the run; malformed cells inside
// a file only default the affected fields.
func (n *Normalizer) Run() (*Datasets, error) {
	demographics, err := n.demographics()
	if err != nil {
		return nil, err
	}
	visitors, err := n.visitors()
	if err != nil {
		return nil, err
	}
	commerce, err := n.commerce()
	if err != nil {
		return nil, err
	}
	cards, err := n.cardTransactions()
	if err != nil {
		return nil, err
	}
	growth, err := n.growth()
	if err != nil {
		return nil, err
	}

	ds := &Datasets{
		Demographics:     *demographics,
		Visitors:         *visitors,
		Commerce:         *commerce,
		CardTransactions: *cards,
		Growth:           *growth,
	}
	ds.KeyMetrics = deriveKeyMetrics(ds)

	n.logger.Info("normalization complete",
		"stores", len(ds.Commerce.Stores),
		"origins", len(ds.Visitors.Origins),
		"indexed_rows", len(ds.Growth.IndexedGrowth),
	)
	return ds, nil
}

func (n *Normalizer) demographics() (*Demographics, error) {
	d := &Demographics{}
	steps := []struct {
		file  string
		build func(*Table)
	}{
		{fileAgeDistribution, func(t *Table) { d.AgeDistribution = buildAgeDistribution(t, false) }},
		{fileBuildings, func(t *Table) { d.Buildings = buildCountBuckets(t, false) }},
		{fileHouseholds, func(t *Table) { d.Households = buildCountBuckets(t, false) }},
		{fileIncome, func(t *Table) { d.IncomeDistribution = buildIncomeBuckets(t) }},
		{fileMedianIncome, func(t *Table) { d.MedianIncome = buildMedianIncome(t) }},
		{filePopulationTrend, func(t *Table) { d.PopulationTrend = buildPopulationTrend(t) }},
	}
	if err := n.buildAll(steps); err != nil {
		return nil, err
	}
	return d, nil
}

func (n *Normalizer) visitors() (*Visitors, error) {
	v := &Visitors{}
	steps := []struct {
		file  string
		build func(*Table)
	}{
		{fileVisAge, func(t *Table) { v.AgeDistribution = buildAgeDistribution(t, true) }},
		{fileVisBuildings, func(t *Table) { v.Buildings = buildCountBuckets(t, true) }},
		{fileVisHouseholds, func(t *Table) { v.Households = buildCountBuckets(t, true) }},
		{fileVisIncome, func(t *Table) { v.Income = buildIncomeBuckets(t) }},
		{fileVisMedianIncome, func(t *Table) { v.MedianIncome = buildMedianIncome(t) }},
		{fileHourlyVisits, func(t *Table) { v.Hourly = buildHourly(t) }},
		{fileWeekdayVisits, func(t *Table) { v.Weekday = buildWeekday(t) }},
		{fileQuarterlyVisits, func(t *Table) { v.Quarterly = buildQuarterly(t) }},
	}
	if err := n.buildAll(steps); err != nil {
		return nil, err
	}

	// The origins export is the one semicolon-delimited file.
	raw, err := n.read(fileOrigins)
	if err != nil {
		return nil, err
	}
	v.Origins = buildOrigins(ParseSemicolonCSV(raw))
	return v, nil
}

func (n *Normalizer) commerce() (*Commerce, error) {
	c := &Commerce{}

	raw, err := n.read(fileRevenueExport)
	if err != nil {
		return nil, err
	}
	c.Stores = ParseRevenueExport(raw)

	steps := []struct {
		file  string
		build func(*Table)
	}{
		{fileCategoryMix, func(t *Table) { c.CategoryMix = buildCategoryMix(t) }},
		{fileChainSplit, func(t *Table) { c.ChainVsIndependent = buildChainSplit(t) }},
		{fileOverUnder, func(t *Table) { c.OverUnderRepresentation = buildOverUnder(t) }},
	}
	if err := n.buildAll(steps); err != nil {
		return nil, err
	}
	return c, nil
}

func (n *Normalizer) cardTransactions() (*CardTransactions, error) {
	c := &CardTransactions{}
	steps := []struct {
		file  string
		build func(*Table)
	}{
		{fileWeeklyCards, func(t *Table) { c.Weekly = buildWeeklyCards(t) }},
		{fileWeekdayCards, func(t *Table) { c.ByWeekday = buildWeekdayCards(t) }},
	}
	if err := n.buildAll(steps); err != nil {
		return nil, err
	}
	return c, nil
}

func (n *Normalizer) growth() (*Growth, error) {
	g := &Growth{}
	steps := []struct {
		file  string
		build func(*Table)
	}{
		{fileAnnualGrowth, func(t *Table) { g.AnnualGrowth = buildAnnualGrowth(t) }},
		{fileIndexedGrowth, func(t *Table) { g.IndexedGrowth = buildIndexedGrowth(t) }},
		{fileCategoryTrend, func(t *Table) { g.CategoryDevelopment = buildCategoryDevelopment(t) }},
	}
	if err := n.buildAll(steps); err != nil {
		return nil, err
	}
	return g, nil
}

func (n *Normalizer) buildAll(steps []struct {
	file  string
	build func(*Table)
}) error {
	for _, s := range steps {
		raw, err := n.read(s.file)
		if err != nil {
			return err
		}
		s.build(ParseSimpleCSV(raw))
		n.logger.Debug("parsed export file", "file", s.file)
	}
	return nil
}

func (n *Normalizer) read(name string) (string, error) {
	data, err := os.ReadFile(filepath.Join(n.dir, name))
	if err != nil {
		return "", fmt.Errorf("read export file: %w", err)
	}
	return StripBOM(string(data)), nil
}

// deriveKeyMetrics computes the headline dashboard figures from the already
// normalized datasets. Values are rounded here and never re-rounded.
func deriveKeyMetrics(ds *Datasets) KeyMetrics {
	var totalPop float64
	if trend := ds.Demographics.PopulationTrend; len(trend) > 0 {
		totalPop = orZero(trend[len(trend)-1].Population)
	}

	var dailyVisits float64
	busiestDay := ""
	busiestVisitors := 0.0
	for _, d := range ds.Visitors.Weekday {
		dailyVisits += orZero(d.Visitors) + orZero(d.Work) + orZero(d.Home)
		if busiestDay == "" || orZero(d.Visitors) > busiestVisitors {
			busiestDay = d.Day
			busiestVisitors = orZero(d.Visitors)
		}
	}
	dailyVisits = RoundF(dailyVisits/7, 0)

	var weeklySum float64
	for _, w := range ds.CardTransactions.Weekly {
		weeklySum += orZero(w.Amount)
	}
	weeklyAvg := 0.0
	if n := len(ds.CardTransactions.Weekly); n > 0 {
		weeklyAvg = RoundF(weeklySum/float64(n), 2)
	}

	var totalRevenue float64
	for _, s := range ds.Commerce.Stores {
		totalRevenue += s.Revenue
	}

	return KeyMetrics{
		Area: "Gulskogen stasjon / Sundland, Drammen",
		Demography: DemographyKPIs{
			Population: totalPop,
			Density:    RoundF(totalPop/studyAreaKm2, 0),
			AreaKm2:    studyAreaKm2,
		},
		Movement: MovementKPIs{
			DailyVisits: dailyVisits,
			PerKm2:      RoundF(dailyVisits/studyAreaKm2, 0),
			BusiestDay:  busiestDay,
		},
		CardActivity: CardKPIs{
			WeeklyAvg:    weeklyAvg,
			TotalStores:  len(ds.Commerce.Stores),
			TotalRevenue: RoundF(totalRevenue, 0),
		},
	}
}
