package domain

import "math"

// 地球半径 (メートル)
const earthRadiusMeters = 6_371_000.0

// Bearing は from から to への大圏コースの初期方位角を度数 [0, 360) で返します。
// 同一地点の場合は 0 を返します。
func Bearing(from, to Coordinate) float64 {
	if from.Latitude == to.Latitude && from.Longitude == to.Longitude {
		return 0
	}

	lat1 := radians(from.Latitude)
	lat2 := radians(to.Latitude)
	dLon := radians(to.Longitude - from.Longitude)

	y := math.Sin(dLon) * math.Cos(lat2)
	x := math.Cos(lat1)*math.Sin(lat2) - math.Sin(lat1)*math.Cos(lat2)*math.Cos(dLon)

	return NormalizeDegrees(degrees(math.Atan2(y, x)))
}

// Distance は2点間の大圏距離をメートルで返します (haversine)。
func Distance(a, b Coordinate) float64 {
	lat1 := radians(a.Latitude)
	lat2 := radians(b.Latitude)
	dLat := radians(b.Latitude - a.Latitude)
	dLon := radians(b.Longitude - a.Longitude)

	sinLat := math.Sin(dLat / 2)
	sinLon := math.Sin(dLon / 2)
	h := sinLat*sinLat + math.Cos(lat1)*math.Cos(lat2)*sinLon*sinLon

	return 2 * earthRadiusMeters * math.Asin(math.Min(1, math.Sqrt(h)))
}

// AngleBetween は2つの方位角の差を度数 [0, 180] で返します。
// 0度と360度付近の折り返しを補正します。
func AngleBetween(a, b float64) float64 {
	diff := math.Abs(NormalizeDegrees(a) - NormalizeDegrees(b))
	if diff > 180 {
		diff = 360 - diff
	}
	return diff
}

// NormalizeDegrees は角度を [0, 360) に正規化します。
func NormalizeDegrees(deg float64) float64 {
	deg = math.Mod(deg, 360)
	if deg < 0 {
		deg += 360
	}
	return deg
}

func radians(deg float64) float64 {
	return deg * math.Pi / 180
}

func degrees(rad float64) float64 {
	return rad * 180 / math.Pi
}
