package weatherapi

import (
	"errors"
	"maps"
	"os"
	"testing"

	"wapi/internal/weather"
)

func loadFixture(t *testing.T, name string) any {
	t.Helper()
	data, err := os.ReadFile("testdata/" + name)
	if err != nil {
		t.Fatal(err)
	}
	body := decodeBody(data)
	if body == nil {
		t.Fatalf("testdata/%s is not valid JSON", name)
	}
	return body
}

func loadObject(t *testing.T, name string) map[string]any {
	t.Helper()
	raw, ok := loadFixture(t, name).(map[string]any)
	if !ok {
		t.Fatalf("testdata/%s is not an object", name)
	}
	return raw
}

func obj(t *testing.T, m map[string]any, key string) map[string]any {
	t.Helper()
	v, ok := m[key].(map[string]any)
	if !ok {
		t.Fatalf("%q is not an object", key)
	}
	return v
}

func firstDay(t *testing.T, raw map[string]any) map[string]any {
	t.Helper()
	days := obj(t, raw, "forecast")["forecastday"].([]any)
	return days[0].(map[string]any)
}

func assertMalformed(t *testing.T, err error, key string) {
	t.Helper()
	if err == nil {
		t.Fatal("expected an error")
	}
	if !errors.Is(err, ErrMalformedResponse) {
		t.Fatalf("expected ErrMalformedResponse, got %v", err)
	}
	var mre *MalformedResponseError
	if !errors.As(err, &mre) {
		t.Fatalf("expected *MalformedResponseError, got %T", err)
	}
	if mre.Key != key {
		t.Errorf("expected key %q, got %q", key, mre.Key)
	}
}

func TestParseCurrent(t *testing.T) {
	raw := loadObject(t, "current.json")

	c, err := ParseCurrent(raw, 200, nil)
	if err != nil {
		t.Fatal(err)
	}

	if c.Status != 200 {
		t.Errorf("expected status 200, got %d", c.Status)
	}
	if c.Location.Name != "London" || c.Location.Country != "United Kingdom" {
		t.Errorf("unexpected location: %+v", c.Location)
	}
	if c.Location.TimezoneID == nil || *c.Location.TimezoneID != "Europe/London" {
		t.Errorf("unexpected tz_id: %v", c.Location.TimezoneID)
	}
	if lt, ok := c.Location.LocalTime(); !ok || lt.Unix() != 1700000000 {
		t.Errorf("unexpected local time: %v %v", lt, ok)
	}
	if c.TempC != 11.0 || c.TempF != 51.8 {
		t.Errorf("unexpected temperature: %v / %v", c.TempC, c.TempF)
	}
	if c.IsDay {
		t.Error("is_day 0 should map to false")
	}
	if c.Condition.Text != "Light rain" || c.Condition.Code != 1183 {
		t.Errorf("unexpected condition: %+v", c.Condition)
	}
	if c.WindDegree != 210 || c.WindDir != "SSW" {
		t.Errorf("unexpected wind: %d %s", c.WindDegree, c.WindDir)
	}
	if c.Humidity != 87 || c.Cloud != 75 {
		t.Errorf("unexpected humidity/cloud: %d %d", c.Humidity, c.Cloud)
	}
	if c.LastUpdatedEpoch != 1699999200 {
		t.Errorf("unexpected last_updated_epoch: %d", c.LastUpdatedEpoch)
	}
	if c.GustKPH == nil || *c.GustKPH != 33.0 {
		t.Errorf("unexpected gust_kph: %v", c.GustKPH)
	}

	if c.AirQuality == nil {
		t.Fatal("expected air quality")
	}
	if c.AirQuality.GBDEFRAIndex != 4 || c.AirQuality.GBDEFRABand() != "Moderate" {
		t.Errorf("unexpected DEFRA: %d %q", c.AirQuality.GBDEFRAIndex, c.AirQuality.GBDEFRABand())
	}
	if c.AirQuality.USEPABand() != "Good" {
		t.Errorf("unexpected EPA band: %q", c.AirQuality.USEPABand())
	}
	if c.AirQuality.PM25 != 3.2 {
		t.Errorf("unexpected pm2_5: %v", c.AirQuality.PM25)
	}

	if got := c.Flatten()["current.condition.code"]; got == nil {
		t.Error("flattened payload should contain current.condition.code")
	}
}

func TestParseCurrentIsDayTruthy(t *testing.T) {
	for _, v := range []any{1, 2, int64(7), 1.0} {
		raw := loadObject(t, "current.json")
		obj(t, raw, "current")["is_day"] = v

		c, err := ParseCurrent(raw, 200, nil)
		if err != nil {
			t.Fatal(err)
		}
		if !c.IsDay {
			t.Errorf("is_day %v should map to true", v)
		}
	}
}

func TestParseCurrentWithoutAirQuality(t *testing.T) {
	raw := loadObject(t, "current.json")
	delete(obj(t, raw, "current"), "air_quality")

	c, err := ParseCurrent(raw, 200, nil)
	if err != nil {
		t.Fatal(err)
	}
	if c.AirQuality != nil {
		t.Errorf("expected no air quality, got %+v", c.AirQuality)
	}
}

func TestParseCurrentMissingKey(t *testing.T) {
	raw := loadObject(t, "current.json")
	delete(obj(t, raw, "current"), "temp_c")

	c, err := ParseCurrent(raw, 200, nil)
	assertMalformed(t, err, "temp_c")
	if c != nil {
		t.Error("no entity should be returned on failure")
	}
}

func TestParseCurrentWrongType(t *testing.T) {
	raw := loadObject(t, "current.json")
	obj(t, raw, "current")["humidity"] = "damp"

	_, err := ParseCurrent(raw, 200, nil)
	assertMalformed(t, err, "humidity")
}

func TestParseCurrentMissingLocation(t *testing.T) {
	raw := loadObject(t, "current.json")
	delete(raw, "location")

	_, err := ParseCurrent(raw, 200, nil)
	assertMalformed(t, err, "location")
}

func TestParseAirQualityDEFRABands(t *testing.T) {
	want := []string{"Low", "Low", "Low", "Moderate", "Moderate", "Moderate", "High", "High", "High", "Very High"}
	for i, band := range want {
		raw := loadObject(t, "current.json")
		obj(t, obj(t, raw, "current"), "air_quality")["gb-defra-index"] = i + 1

		c, err := ParseCurrent(raw, 200, nil)
		if err != nil {
			t.Fatalf("index %d: %v", i+1, err)
		}
		if got := c.AirQuality.GBDEFRABand(); got != band {
			t.Errorf("index %d: expected %q, got %q", i+1, band, got)
		}
	}

	for _, index := range []int{0, 11} {
		raw := loadObject(t, "current.json")
		obj(t, obj(t, raw, "current"), "air_quality")["gb-defra-index"] = index

		_, err := ParseCurrent(raw, 200, nil)
		assertMalformed(t, err, "gb-defra-index")
	}
}

func TestParseAstronomyStandalone(t *testing.T) {
	raw := loadObject(t, "astronomy.json")

	a, err := ParseAstronomy(raw, 200, nil)
	if err != nil {
		t.Fatal(err)
	}
	if a.Location == nil || a.Location.Name != "Paris" {
		t.Fatalf("expected Paris location, got %+v", a.Location)
	}
	if a.Sunrise != "07:55 AM" || a.Moonset != "05:21 PM" {
		t.Errorf("unexpected times: %s %s", a.Sunrise, a.Moonset)
	}
	if a.MoonPhase == nil || *a.MoonPhase != weather.WaxingCrescent {
		t.Errorf("unexpected moon phase: %v", a.MoonPhase)
	}
	if a.MoonIllumination == nil || *a.MoonIllumination != 3 {
		t.Errorf("unexpected moon illumination: %v", a.MoonIllumination)
	}
}

func TestParseAstronomyEmbedded(t *testing.T) {
	raw := obj(t, obj(t, loadObject(t, "astronomy.json"), "astronomy"), "astro")

	a, err := ParseAstronomy(raw, 0, nil)
	if err != nil {
		t.Fatal(err)
	}
	if a.Location != nil {
		t.Error("embedded astro block has no location")
	}
	if a.Sunset != "05:09 PM" {
		t.Errorf("unexpected sunset: %s", a.Sunset)
	}
}

func TestParseAstronomyOptionalFields(t *testing.T) {
	raw := obj(t, obj(t, loadObject(t, "astronomy.json"), "astronomy"), "astro")
	delete(raw, "moon_phase")
	delete(raw, "moon_illumination")

	a, err := ParseAstronomy(raw, 0, nil)
	if err != nil {
		t.Fatal(err)
	}
	if a.MoonPhase != nil || a.MoonIllumination != nil {
		t.Errorf("expected absent moon data, got %v %v", a.MoonPhase, a.MoonIllumination)
	}
}

func TestParseAstronomyStandaloneMissingAstro(t *testing.T) {
	raw := loadObject(t, "astronomy.json")
	delete(obj(t, raw, "astronomy"), "astro")

	_, err := ParseAstronomy(raw, 200, nil)
	assertMalformed(t, err, "astro")
}

func TestParseAstronomyUnknownMoonPhase(t *testing.T) {
	raw := obj(t, obj(t, loadObject(t, "astronomy.json"), "astronomy"), "astro")
	raw["moon_phase"] = "Blue Moon"

	_, err := ParseAstronomy(raw, 0, nil)
	assertMalformed(t, err, "moon_phase")
}

func TestParseForecast(t *testing.T) {
	raw := loadObject(t, "forecast.json")

	f, err := ParseForecast(raw, 200, nil)
	if err != nil {
		t.Fatal(err)
	}
	if f.Location.Name != "Oslo" {
		t.Errorf("unexpected location: %s", f.Location.Name)
	}
	if len(f.Days) != 1 {
		t.Fatalf("expected 1 day, got %d", len(f.Days))
	}

	day := f.Days[0]
	if day.Date != "2023-11-14" {
		t.Errorf("unexpected date: %s", day.Date)
	}
	if day.Day.MaxTempC != 4.2 || day.Day.AvgHumidity != 88 {
		t.Errorf("unexpected day summary: %+v", day.Day)
	}
	if day.AirQuality == nil || day.AirQuality.GBDEFRABand() != "Low" {
		t.Errorf("unexpected day air quality: %+v", day.AirQuality)
	}
	if day.Astro.Location != nil {
		t.Error("embedded astro should not carry a location")
	}
	if day.Astro.Sunrise != "08:14 AM" {
		t.Errorf("unexpected sunrise: %s", day.Astro.Sunrise)
	}

	if len(day.Hours) != 2 {
		t.Fatalf("expected 2 hours, got %d", len(day.Hours))
	}
	if day.Hours[0].Time != "2023-11-14 00:00" || day.Hours[1].Time != "2023-11-14 01:00" {
		t.Errorf("hours out of order: %s, %s", day.Hours[0].Time, day.Hours[1].Time)
	}
	if day.Hours[1].ChanceOfRain != 40 {
		t.Errorf("unexpected chance_of_rain: %d", day.Hours[1].ChanceOfRain)
	}
	if day.Hours[0].UV == nil {
		t.Error("expected uv on forecast hour")
	}

	if len(f.Alerts) != 1 {
		t.Fatalf("expected 1 alert, got %d", len(f.Alerts))
	}
	if f.Alerts[0].Event != "Wind" || f.Alerts[0].Description != "Strong gusts along the coast." {
		t.Errorf("unexpected alert: %+v", f.Alerts[0])
	}
}

func TestParseForecastWithoutAlerts(t *testing.T) {
	raw := loadObject(t, "forecast.json")
	delete(raw, "alerts")

	f, err := ParseForecast(raw, 200, nil)
	if err != nil {
		t.Fatal(err)
	}
	if f.Alerts == nil || len(f.Alerts) != 0 {
		t.Errorf("expected empty alerts, got %v", f.Alerts)
	}
}

func TestParseForecastFutureHourWithoutUV(t *testing.T) {
	raw := loadObject(t, "forecast.json")
	hour := firstDay(t, raw)["hour"].([]any)[0].(map[string]any)
	delete(hour, "uv")

	f, err := ParseForecast(raw, 200, nil)
	if err != nil {
		t.Fatal(err)
	}
	if f.Days[0].Hours[0].UV != nil {
		t.Error("expected absent uv")
	}
}

func TestParseForecastBadHour(t *testing.T) {
	raw := loadObject(t, "forecast.json")
	day := firstDay(t, raw)
	day["hour"] = []any{"not an hour"}

	_, err := ParseForecast(raw, 200, nil)
	assertMalformed(t, err, "hour[0]")
}

func TestForecastHoursOrder(t *testing.T) {
	raw := loadObject(t, "forecast.json")
	template := firstDay(t, raw)
	hourTemplate := template["hour"].([]any)[0].(map[string]any)

	var days []any
	for d := range 3 {
		day := maps.Clone(template)
		var hours []any
		for h := range 24 {
			hour := maps.Clone(hourTemplate)
			hour["time_epoch"] = int64(1699920000 + d*86400 + h*3600)
			hours = append(hours, hour)
		}
		day["hour"] = hours
		days = append(days, day)
	}
	obj(t, raw, "forecast")["forecastday"] = days

	f, err := ParseForecast(raw, 200, nil)
	if err != nil {
		t.Fatal(err)
	}

	var count int
	var last int64
	for h := range f.Hours() {
		if count > 0 && h.TimeEpoch <= last {
			t.Fatalf("hour %d out of order: %d after %d", count, h.TimeEpoch, last)
		}
		last = h.TimeEpoch
		count++
	}
	if count != 72 {
		t.Errorf("expected 72 hours, got %d", count)
	}
}

func TestParseMarine(t *testing.T) {
	raw := loadObject(t, "marine.json")

	m, err := ParseMarine(raw, 200, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(m.Days) != 1 {
		t.Fatalf("expected 1 day, got %d", len(m.Days))
	}

	day := m.Days[0]
	if len(day.Tides) != 2 {
		t.Fatalf("expected 2 tides, got %d", len(day.Tides))
	}
	if day.Tides[0].Type != weather.TideLow || day.Tides[1].Type != weather.TideHigh {
		t.Errorf("unexpected tide order: %s, %s", day.Tides[0].Type, day.Tides[1].Type)
	}
	if day.Tides[0].HeightMt != 0.42 {
		t.Errorf("unexpected tide height: %v", day.Tides[0].HeightMt)
	}

	var hours []*weather.MarineHour
	for h := range m.Hours() {
		hours = append(hours, h)
	}
	if len(hours) != 2 {
		t.Fatalf("expected 2 marine hours, got %d", len(hours))
	}
	if hours[0].SwellDir16Point != "WSW" || hours[0].WaterTempC != 9.4 {
		t.Errorf("unexpected marine hour: %+v", hours[0])
	}
}

func TestParseMarineWithoutTides(t *testing.T) {
	raw := loadObject(t, "marine.json")
	delete(obj(t, firstDay(t, raw), "day"), "tides")

	m, err := ParseMarine(raw, 200, nil)
	if err != nil {
		t.Fatal(err)
	}
	if m.Days[0].Tides == nil || len(m.Days[0].Tides) != 0 {
		t.Errorf("expected empty tides, got %v", m.Days[0].Tides)
	}
}

func TestParseMarineBadTideType(t *testing.T) {
	raw := loadObject(t, "marine.json")
	tides := obj(t, firstDay(t, raw), "day")["tides"].([]any)
	tide := tides[0].(map[string]any)["tide"].([]any)[0].(map[string]any)
	tide["tide_type"] = "SLACK"

	_, err := ParseMarine(raw, 200, nil)
	assertMalformed(t, err, "tide_type")
}

func TestParseIP(t *testing.T) {
	raw := loadObject(t, "ip.json")

	info, err := ParseIP(raw, 200, nil)
	if err != nil {
		t.Fatal(err)
	}
	if info.IP != "100.0.0.1" || info.Type != "ipv4" {
		t.Errorf("unexpected ip: %s %s", info.IP, info.Type)
	}
	if info.IsEU {
		t.Error("is_eu should be false")
	}
	if info.GeonameID == nil || *info.GeonameID != 4930956 {
		t.Errorf("unexpected geoname_id: %v", info.GeonameID)
	}
	if info.City != "Boston" || info.TimezoneID != "America/New_York" {
		t.Errorf("unexpected city/tz: %s %s", info.City, info.TimezoneID)
	}
}

func TestParseSports(t *testing.T) {
	raw := loadObject(t, "sports.json")

	s, err := ParseSports(raw, 200, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(s.Events) != 3 {
		t.Fatalf("expected 3 events, got %d", len(s.Events))
	}
	if s.Events[0].Category != weather.Football || s.Events[2].Category != weather.Cricket {
		t.Errorf("unexpected categories: %s, %s", s.Events[0].Category, s.Events[2].Category)
	}
	if s.Events[1].Match != "Brentford vs Arsenal" {
		t.Errorf("football events out of order: %s", s.Events[1].Match)
	}
	if len(s.ByCategory[weather.Football]) != 2 || len(s.ByCategory[weather.Golf]) != 0 || len(s.ByCategory[weather.Cricket]) != 1 {
		t.Errorf("unexpected grouping: %v", s.ByCategory)
	}
}

func TestParseSportsMissingCategory(t *testing.T) {
	raw := loadObject(t, "sports.json")
	delete(raw, "golf")

	_, err := ParseSports(raw, 200, nil)
	assertMalformed(t, err, "golf")
}

func TestParseSearch(t *testing.T) {
	body := loadFixture(t, "search.json")

	locations, err := ParseSearch(body, 200, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(locations) != 2 {
		t.Fatalf("expected 2 locations, got %d", len(locations))
	}
	if locations[1].Region != "Ontario" {
		t.Errorf("unexpected order: %s", locations[1].Region)
	}
	if locations[0].ID == nil || *locations[0].ID != 2801268 {
		t.Errorf("unexpected id: %v", locations[0].ID)
	}
	if locations[0].TimezoneID != nil {
		t.Error("search results carry no tz_id")
	}

	empty, err := ParseSearch([]any{}, 200, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(empty) != 0 {
		t.Errorf("expected no locations, got %d", len(empty))
	}
}

func TestParseSearchNotArray(t *testing.T) {
	_, err := ParseSearch(map[string]any{}, 200, nil)
	if !errors.Is(err, ErrMalformedResponse) {
		t.Fatalf("expected ErrMalformedResponse, got %v", err)
	}
}
