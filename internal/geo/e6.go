// 包 geo：微度（1e-6 度）定点坐标
package geo

import (
	"math"
	"strconv"
)

// Scale：度到微度的换算系数
const Scale = 1e6

// E6：纬度/经度乘以 1e6 后的整数对
// 约束：相等即两分量逐一相等，不做浮点容差；可直接用作 map 键
type E6 struct {
	Lat int32
	Lng int32
}

// LatLng：浮点度数表示
type LatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

func New(latE6, lngE6 int32) E6 { return E6{Lat: latE6, Lng: lngE6} }

// FromDegrees：浮点度数四舍五入到微度
func FromDegrees(lat, lng float64) E6 {
	return E6{Lat: int32(math.Round(lat * Scale)), Lng: int32(math.Round(lng * Scale))}
}

func (c E6) LatLng() LatLng {
	return LatLng{Lat: float64(c.Lat) / Scale, Lng: float64(c.Lng) / Scale}
}

// Key："lat,lng" 文本形式，用于日志与外部缓存键
func (c E6) Key() string {
	return strconv.FormatInt(int64(c.Lat), 10) + "," + strconv.FormatInt(int64(c.Lng), 10)
}

func (c E6) String() string { return c.Key() }
