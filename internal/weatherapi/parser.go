package weatherapi

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"wapi/internal/weather"
)

// ParseLocation builds a location from a "location" object or a search result.
func ParseLocation(raw map[string]any, status int, code *int) (*weather.Location, error) {
	loc, err := parseLocation(raw, status, code)
	if err != nil {
		return nil, err
	}
	return &loc, nil
}

func parseLocation(raw map[string]any, status int, code *int) (weather.Location, error) {
	f := newFields("location", raw)
	loc := weather.Location{
		APIResponse:    weather.APIResponse{Raw: raw, Status: status, Code: code},
		ID:             f.optInt("id"),
		Name:           f.str("name"),
		Region:         f.str("region"),
		Country:        f.str("country"),
		Lat:            f.float("lat"),
		Lon:            f.float("lon"),
		TimezoneID:     f.optString("tz_id"),
		LocaltimeEpoch: f.optInt64("localtime_epoch"),
		Localtime:      f.optString("localtime"),
	}
	if f.err != nil {
		return weather.Location{}, f.err
	}
	return loc, nil
}

// ParseSearch builds the locations of a search/autocomplete response, whose
// body is a JSON array rather than an object.
func ParseSearch(body any, status int, code *int) ([]weather.Location, error) {
	items, ok := body.([]any)
	if !ok {
		return nil, &MalformedResponseError{Entity: "search", Key: "", Reason: fmt.Sprintf("body is %T, want array", body)}
	}
	return objects("search", "", items, func(m map[string]any) (weather.Location, error) {
		return parseLocation(m, status, code)
	})
}

func parseAirQuality(raw map[string]any) (weather.AirQuality, error) {
	f := newFields("air quality", raw)
	aq := weather.AirQuality{
		CO:           f.float("co"),
		O3:           f.float("o3"),
		NO2:          f.float("no2"),
		SO2:          f.float("so2"),
		PM25:         f.float("pm2_5"),
		PM10:         f.float("pm10"),
		USEPAIndex:   f.int("us-epa-index"),
		GBDEFRAIndex: f.int("gb-defra-index"),
	}
	if f.err != nil {
		return weather.AirQuality{}, f.err
	}
	if _, err := weather.DEFRABand(aq.GBDEFRAIndex); err != nil {
		return weather.AirQuality{}, &MalformedResponseError{Entity: "air quality", Key: "gb-defra-index", Reason: err.Error()}
	}
	return aq, nil
}

// airQuality reads an optional air_quality block. Absent, null and empty
// objects all mean the data was not requested.
func (f *fields) airQuality() *weather.AirQuality {
	obj := f.optObject("air_quality")
	if len(obj) == 0 {
		return nil
	}
	aq, err := parseAirQuality(obj)
	if err != nil {
		f.adopt(err)
		return nil
	}
	return &aq
}

func (f *fields) condition() weather.Condition {
	obj := f.object("condition")
	if obj == nil {
		return weather.Condition{}
	}
	c := newFields("condition", obj)
	cond := weather.Condition{
		Text: c.str("text"),
		Icon: c.str("icon"),
		Code: c.int("code"),
	}
	f.adopt(c.err)
	return cond
}

func (f *fields) reading() weather.Reading {
	return weather.Reading{
		TempC:      f.float("temp_c"),
		TempF:      f.float("temp_f"),
		IsDay:      f.flag("is_day"),
		Condition:  f.condition(),
		WindMPH:    f.float("wind_mph"),
		WindKPH:    f.float("wind_kph"),
		WindDegree: f.int("wind_degree"),
		WindDir:    f.str("wind_dir"),
		PressureMB: f.float("pressure_mb"),
		PressureIn: f.float("pressure_in"),
		PrecipMM:   f.float("precip_mm"),
		PrecipIn:   f.float("precip_in"),
		Humidity:   f.int("humidity"),
		Cloud:      f.int("cloud"),
		FeelsLikeC: f.float("feelslike_c"),
		FeelsLikeF: f.float("feelslike_f"),
	}
}

func (f *fields) hourReading() weather.HourReading {
	return weather.HourReading{
		Reading:    f.reading(),
		TimeEpoch:  f.int64("time_epoch"),
		Time:       f.str("time"),
		WindchillC: f.float("windchill_c"),
		WindchillF: f.float("windchill_f"),
		HeatindexC: f.float("heatindex_c"),
		HeatindexF: f.float("heatindex_f"),
		DewpointC:  f.float("dewpoint_c"),
		DewpointF:  f.float("dewpoint_f"),
		VisKM:      f.float("vis_km"),
		VisMiles:   f.float("vis_miles"),
		GustMPH:    f.float("gust_mph"),
		GustKPH:    f.float("gust_kph"),
		UV:         f.optFloat("uv"),
	}
}

func (f *fields) daySummary() weather.DaySummary {
	return weather.DaySummary{
		MaxTempC:      f.float("maxtemp_c"),
		MaxTempF:      f.float("maxtemp_f"),
		MinTempC:      f.float("mintemp_c"),
		MinTempF:      f.float("mintemp_f"),
		AvgTempC:      f.float("avgtemp_c"),
		AvgTempF:      f.float("avgtemp_f"),
		MaxWindMPH:    f.float("maxwind_mph"),
		MaxWindKPH:    f.float("maxwind_kph"),
		TotalPrecipMM: f.float("totalprecip_mm"),
		TotalPrecipIn: f.float("totalprecip_in"),
		AvgVisKM:      f.float("avgvis_km"),
		AvgVisMiles:   f.float("avgvis_miles"),
		AvgHumidity:   f.float("avghumidity"),
		UV:            f.optFloat("uv"),
		Condition:     f.condition(),
	}
}

// ParseCurrent builds the current.json response.
func ParseCurrent(raw map[string]any, status int, code *int) (*weather.Current, error) {
	top := newFields("current weather", raw)
	locRaw := top.object("location")
	curRaw := top.object("current")
	if top.err != nil {
		return nil, top.err
	}
	loc, err := parseLocation(locRaw, status, code)
	if err != nil {
		return nil, err
	}

	f := newFields("current weather", curRaw)
	c := &weather.Current{
		APIResponse:      weather.APIResponse{Raw: raw, Status: status, Code: code},
		Location:         loc,
		Reading:          f.reading(),
		LastUpdatedEpoch: f.int64("last_updated_epoch"),
		LastUpdated:      f.optString("last_updated"),
		UV:               f.float("uv"),
		VisKM:            f.optFloat("vis_km"),
		VisMiles:         f.optFloat("vis_miles"),
		GustMPH:          f.optFloat("gust_mph"),
		GustKPH:          f.optFloat("gust_kph"),
		AirQuality:       f.airQuality(),
	}
	if f.err != nil {
		return nil, f.err
	}
	return c, nil
}

func parseForecastHour(raw map[string]any) (weather.ForecastHour, error) {
	f := newFields("forecast hour", raw)
	h := weather.ForecastHour{
		HourReading:  f.hourReading(),
		WillItRain:   f.flag("will_it_rain"),
		WillItSnow:   f.flag("will_it_snow"),
		ChanceOfRain: f.int("chance_of_rain"),
		ChanceOfSnow: f.int("chance_of_snow"),
		AirQuality:   f.airQuality(),
	}
	if f.err != nil {
		return weather.ForecastHour{}, f.err
	}
	return h, nil
}

func parseMarineHour(raw map[string]any) (weather.MarineHour, error) {
	f := newFields("marine hour", raw)
	h := weather.MarineHour{
		HourReading:     f.hourReading(),
		SigHtMt:         f.float("sig_ht_mt"),
		SwellHtMt:       f.float("swell_ht_mt"),
		SwellHtFt:       f.float("swell_ht_ft"),
		SwellDir:        f.float("swell_dir"),
		SwellDir16Point: f.str("swell_dir_16_point"),
		SwellPeriodSecs: f.float("swell_period_secs"),
		WaterTempC:      f.float("water_temp_c"),
		WaterTempF:      f.float("water_temp_f"),
	}
	if f.err != nil {
		return weather.MarineHour{}, f.err
	}
	return h, nil
}

// ParseAstronomy accepts both shapes the service uses for astronomy data:
// the astronomy.json body ({"location": ..., "astronomy": {"astro": ...}})
// and the bare astro block embedded in forecast days. Only the first carries
// a location.
func ParseAstronomy(raw map[string]any, status int, code *int) (*weather.Astronomy, error) {
	a, err := parseAstronomy(raw, status, code)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func parseAstronomy(raw map[string]any, status int, code *int) (weather.Astronomy, error) {
	a := weather.Astronomy{APIResponse: weather.APIResponse{Raw: raw, Status: status, Code: code}}
	astro := raw
	if v, standalone := raw["astronomy"]; standalone && v != nil {
		top := newFields("astronomy", raw)
		locRaw := top.object("location")
		wrapper := top.object("astronomy")
		if top.err != nil {
			return weather.Astronomy{}, top.err
		}
		inner := newFields("astronomy", wrapper)
		astro = inner.object("astro")
		if inner.err != nil {
			return weather.Astronomy{}, inner.err
		}
		loc, err := parseLocation(locRaw, status, code)
		if err != nil {
			return weather.Astronomy{}, err
		}
		a.Location = &loc
	}

	f := newFields("astro", astro)
	a.Sunrise = f.str("sunrise")
	a.Sunset = f.str("sunset")
	a.Moonrise = f.str("moonrise")
	a.Moonset = f.str("moonset")
	a.MoonPhase = f.moonPhase("moon_phase")
	a.MoonIllumination = f.percent("moon_illumination")
	if f.err != nil {
		return weather.Astronomy{}, f.err
	}
	return a, nil
}

func (f *fields) moonPhase(key string) *weather.MoonPhase {
	s := f.optString(key)
	if s == nil {
		return nil
	}
	for _, p := range weather.MoonPhases {
		if strings.EqualFold(strings.TrimSpace(*s), string(p)) {
			return &p
		}
	}
	f.fail(key, fmt.Sprintf("%q is not a moon phase", *s))
	return nil
}

// percent reads an optional whole percentage in [0, 100].
func (f *fields) percent(key string) *int {
	if _, ok := f.optional(key); !ok {
		return nil
	}
	n := f.numeric(key)
	if f.err != nil {
		return nil
	}
	if n < 0 || n > 100 || n != float64(int(n)) {
		f.fail(key, fmt.Sprintf("%v is not a percentage", n))
		return nil
	}
	p := int(n)
	return &p
}

func parseForecastDay(raw map[string]any) (weather.ForecastDay, error) {
	f := newFields("forecast day", raw)
	d := weather.ForecastDay{
		Date:      f.str("date"),
		DateEpoch: f.int64("date_epoch"),
	}
	dayRaw := f.object("day")
	hours := f.list("hour")
	astroRaw := f.object("astro")
	if f.err != nil {
		return weather.ForecastDay{}, f.err
	}

	df := newFields("forecast day", dayRaw)
	d.Day = df.daySummary()
	d.AirQuality = df.airQuality()
	if df.err != nil {
		return weather.ForecastDay{}, df.err
	}

	var err error
	if d.Hours, err = objects("forecast day", "hour", hours, parseForecastHour); err != nil {
		return weather.ForecastDay{}, err
	}
	if d.Astro, err = parseAstronomy(astroRaw, 0, nil); err != nil {
		return weather.ForecastDay{}, err
	}
	return d, nil
}

func parseAlert(raw map[string]any) (weather.Alert, error) {
	f := newFields("alert", raw)
	a := weather.Alert{
		Headline:    f.str("headline"),
		MsgType:     f.str("msgType"),
		Severity:    f.str("severity"),
		Urgency:     f.str("urgency"),
		Areas:       f.str("areas"),
		Category:    f.str("category"),
		Certainty:   f.str("certainty"),
		Event:       f.str("event"),
		Note:        f.str("note"),
		Effective:   f.str("effective"),
		Expires:     f.str("expires"),
		Description: f.str("desc"),
		Instruction: f.str("instruction"),
	}
	if f.err != nil {
		return weather.Alert{}, f.err
	}
	return a, nil
}

// parseAlerts collects every list inside the alerts object. Keys are visited
// in sorted order; the service currently only sends "alert".
func parseAlerts(raw map[string]any) ([]weather.Alert, error) {
	alerts := []weather.Alert{}
	f := newFields("alerts", raw)
	for _, key := range slices.Sorted(maps.Keys(raw)) {
		items := f.optList(key)
		if f.err != nil {
			return nil, f.err
		}
		batch, err := objects("alerts", key, items, parseAlert)
		if err != nil {
			return nil, err
		}
		alerts = append(alerts, batch...)
	}
	return alerts, nil
}

// ParseForecast builds forecast.json, history.json and future.json responses.
func ParseForecast(raw map[string]any, status int, code *int) (*weather.Forecast, error) {
	top := newFields("forecast", raw)
	locRaw := top.object("location")
	fc := top.object("forecast")
	alertsRaw := top.optObject("alerts")
	if top.err != nil {
		return nil, top.err
	}
	inner := newFields("forecast", fc)
	dayItems := inner.list("forecastday")
	if inner.err != nil {
		return nil, inner.err
	}

	loc, err := parseLocation(locRaw, status, code)
	if err != nil {
		return nil, err
	}
	days, err := objects("forecast", "forecastday", dayItems, parseForecastDay)
	if err != nil {
		return nil, err
	}
	alerts, err := parseAlerts(alertsRaw)
	if err != nil {
		return nil, err
	}
	return &weather.Forecast{
		APIResponse: weather.APIResponse{Raw: raw, Status: status, Code: code},
		Location:    loc,
		Days:        days,
		Alerts:      alerts,
	}, nil
}

func parseTide(raw map[string]any) (weather.Tide, error) {
	f := newFields("tide", raw)
	t := weather.Tide{
		Time:     f.str("tide_time"),
		HeightMt: f.numeric("tide_height_mt"),
	}
	kind := f.str("tide_type")
	if f.err != nil {
		return weather.Tide{}, f.err
	}
	switch tt := weather.TideType(strings.ToUpper(strings.TrimSpace(kind))); tt {
	case weather.TideHigh, weather.TideLow:
		t.Type = tt
	default:
		return weather.Tide{}, &MalformedResponseError{Entity: "tide", Key: "tide_type", Reason: fmt.Sprintf("%q is not HIGH or LOW", kind)}
	}
	return t, nil
}

// parseTides flattens day.tides[*].tide[*] in order. Tides are only present
// when they were requested.
func parseTides(items []any) ([]weather.Tide, error) {
	tides := []weather.Tide{}
	for i, item := range items {
		group, ok := item.(map[string]any)
		if !ok {
			return nil, &MalformedResponseError{Entity: "marine day", Key: fmt.Sprintf("tides[%d]", i), Reason: fmt.Sprintf("is %T, want object", item)}
		}
		f := newFields("marine day", group)
		list := f.list("tide")
		if f.err != nil {
			return nil, f.err
		}
		batch, err := objects("marine day", fmt.Sprintf("tides[%d].tide", i), list, parseTide)
		if err != nil {
			return nil, err
		}
		tides = append(tides, batch...)
	}
	return tides, nil
}

func parseMarineDay(raw map[string]any) (weather.MarineDay, error) {
	f := newFields("marine day", raw)
	d := weather.MarineDay{
		Date:      f.str("date"),
		DateEpoch: f.int64("date_epoch"),
	}
	dayRaw := f.object("day")
	hours := f.list("hour")
	astroRaw := f.object("astro")
	if f.err != nil {
		return weather.MarineDay{}, f.err
	}

	df := newFields("marine day", dayRaw)
	d.Day = df.daySummary()
	tideItems := df.optList("tides")
	if df.err != nil {
		return weather.MarineDay{}, df.err
	}

	var err error
	if d.Tides, err = parseTides(tideItems); err != nil {
		return weather.MarineDay{}, err
	}
	if d.Hours, err = objects("marine day", "hour", hours, parseMarineHour); err != nil {
		return weather.MarineDay{}, err
	}
	if d.Astro, err = parseAstronomy(astroRaw, 0, nil); err != nil {
		return weather.MarineDay{}, err
	}
	return d, nil
}

// ParseMarine builds the marine.json response.
func ParseMarine(raw map[string]any, status int, code *int) (*weather.Marine, error) {
	top := newFields("marine", raw)
	locRaw := top.object("location")
	fc := top.object("forecast")
	if top.err != nil {
		return nil, top.err
	}
	inner := newFields("marine", fc)
	dayItems := inner.list("forecastday")
	if inner.err != nil {
		return nil, inner.err
	}

	loc, err := parseLocation(locRaw, status, code)
	if err != nil {
		return nil, err
	}
	days, err := objects("marine", "forecastday", dayItems, parseMarineDay)
	if err != nil {
		return nil, err
	}
	return &weather.Marine{
		APIResponse: weather.APIResponse{Raw: raw, Status: status, Code: code},
		Location:    loc,
		Days:        days,
	}, nil
}

// ParseIP builds the ip.json response.
func ParseIP(raw map[string]any, status int, code *int) (*weather.IPInfo, error) {
	f := newFields("ip lookup", raw)
	info := &weather.IPInfo{
		APIResponse:    weather.APIResponse{Raw: raw, Status: status, Code: code},
		IP:             f.str("ip"),
		Type:           f.str("type"),
		ContinentCode:  f.str("continent_code"),
		ContinentName:  f.str("continent_name"),
		CountryCode:    f.str("country_code"),
		CountryName:    f.str("country_name"),
		IsEU:           f.flag("is_eu"),
		GeonameID:      f.optInt("geoname_id"),
		City:           f.str("city"),
		Region:         f.str("region"),
		Lat:            f.float("lat"),
		Lon:            f.float("lon"),
		TimezoneID:     f.str("tz_id"),
		LocaltimeEpoch: f.int64("localtime_epoch"),
		Localtime:      f.str("localtime"),
	}
	if f.err != nil {
		return nil, f.err
	}
	return info, nil
}

// ParseSports builds the sports.json response. Events keep their source order
// within a category; categories follow weather.SportCategories.
func ParseSports(raw map[string]any, status int, code *int) (*weather.Sports, error) {
	s := &weather.Sports{
		APIResponse: weather.APIResponse{Raw: raw, Status: status, Code: code},
		Events:      []weather.SportsEvent{},
		ByCategory:  make(map[weather.SportCategory][]weather.SportsEvent, len(weather.SportCategories)),
	}
	top := newFields("sports", raw)
	for _, category := range weather.SportCategories {
		items := top.list(string(category))
		if top.err != nil {
			return nil, top.err
		}
		events, err := objects("sports", string(category), items, func(m map[string]any) (weather.SportsEvent, error) {
			return parseSportsEvent(m, category)
		})
		if err != nil {
			return nil, err
		}
		s.Events = append(s.Events, events...)
		s.ByCategory[category] = events
	}
	return s, nil
}

func parseSportsEvent(raw map[string]any, category weather.SportCategory) (weather.SportsEvent, error) {
	f := newFields("sports event", raw)
	e := weather.SportsEvent{
		Category:   category,
		Stadium:    f.str("stadium"),
		Country:    f.str("country"),
		Region:     f.str("region"),
		Tournament: f.str("tournament"),
		Start:      f.str("start"),
		Match:      f.str("match"),
	}
	if f.err != nil {
		return weather.SportsEvent{}, f.err
	}
	return e, nil
}
