// Package domain models calendar events and the weather data attached to them.
//
// # Data Sources
//
// Events come from a calendar provider (Google Calendar or an ICS feed). Weather
// comes from Open-Meteo (https://open-meteo.com/en/docs): a 7-day daily forecast
// plus hourly samples for a single day, both requested with timezone=auto so the
// provider answers in the local time of the coordinates.
//
// # Weather Codes
//
// Open-Meteo reports WMO 4677 present-weather codes. Only the codes the
// forecast model actually emits are classified; everything else is Unknown:
//
//	0           Clear
//	1, 2, 3     Cloudy        (mainly clear, partly cloudy, overcast)
//	45, 48      Fog           (fog, depositing rime fog)
//	51, 53, 55  Drizzle       (light, moderate, dense)
//	61, 63, 65  Rainy         (slight, moderate, heavy)
//	71, 73, 75  Snow          (slight, moderate, heavy)
//	95, 96, 99  Thunderstorm  (with and without hail)
//
// Freezing drizzle/rain (56, 57, 66, 67), snow grains (77) and showers (80-86)
// are intentionally left Unknown; the dashboard shows a neutral icon for them.
//
// # Precipitation
//
// The provider reports precipitation probability as a percentage (0-100).
// Everything exposed by this package uses a fraction (0.0-1.0). See
// [NormalizePrecipitation].
//
// # Time Alignment
//
// All timestamps are zone-aware. The daily forecast is matched on the calendar
// date of the event start in the event's own timezone. The hourly reading is
// the sample with the smallest absolute distance to the start instant; on a tie
// the earlier sample wins. See [ClosestSample].
//
// # Locations
//
// Calendar locations are free text. "Toronto, Ontario, Canada" is split on
// commas: the first segment is the place name and the last segment is the
// region used to disambiguate geocoding candidates. A location whose latitude
// and longitude are both exactly zero is unresolved.
package domain
