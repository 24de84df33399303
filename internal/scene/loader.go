package scene

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"portal-data/internal/geo"
	"portal-data/internal/logger"
)

// 文档注释：场景文件格式（JSON）
// 背景：与渲染层摘要数据一致，坐标以 latE6/lngE6 整数表达；用于启动时预置注册表或离线重放。
// 约束：控制场必须恰有三个顶点，否则整个文件视为无效。
type fileScene struct {
	Portals []filePortal `json:"portals"`
	Links   []fileLink   `json:"links"`
	Fields  []fileField  `json:"fields"`
}

type filePortal struct {
	GUID     string `json:"guid"`
	LatE6    int32  `json:"latE6"`
	LngE6    int32  `json:"lngE6"`
	ResCount int    `json:"resCount"`
	Level    int    `json:"level"`
	Team     string `json:"team"`
	Title    string `json:"title"`
}

type fileLink struct {
	GUID   string `json:"guid"`
	Team   string `json:"team"`
	OGuid  string `json:"oGuid"`
	OLatE6 int32  `json:"oLatE6"`
	OLngE6 int32  `json:"oLngE6"`
	DGuid  string `json:"dGuid"`
	DLatE6 int32  `json:"dLatE6"`
	DLngE6 int32  `json:"dLngE6"`
}

type filePoint struct {
	GUID  string `json:"guid"`
	LatE6 int32  `json:"latE6"`
	LngE6 int32  `json:"lngE6"`
}

type fileField struct {
	GUID   string      `json:"guid"`
	Team   string      `json:"team"`
	Points []filePoint `json:"points"`
}

// Load：从 JSON 读取场景并写入 reg
func Load(r io.Reader, reg *Registry) error {
	var fs fileScene
	if err := json.NewDecoder(r).Decode(&fs); err != nil {
		return fmt.Errorf("decode scene: %w", err)
	}
	for i, f := range fs.Fields {
		if len(f.Points) != 3 {
			return fmt.Errorf("field %d (%s): want 3 points, got %d", i, f.GUID, len(f.Points))
		}
	}
	for _, p := range fs.Portals {
		reg.PutPortal(Portal{
			GUID:     p.GUID,
			Coord:    geo.New(p.LatE6, p.LngE6),
			ResCount: p.ResCount,
			Level:    p.Level,
			Team:     p.Team,
			Title:    p.Title,
		})
	}
	for _, l := range fs.Links {
		reg.PutLink(Link{
			GUID:   l.GUID,
			Team:   l.Team,
			Origin: Endpoint{GUID: l.OGuid, Coord: geo.New(l.OLatE6, l.OLngE6)},
			Dest:   Endpoint{GUID: l.DGuid, Coord: geo.New(l.DLatE6, l.DLngE6)},
		})
	}
	for _, f := range fs.Fields {
		var pts [3]Endpoint
		for i, p := range f.Points {
			pts[i] = Endpoint{GUID: p.GUID, Coord: geo.New(p.LatE6, p.LngE6)}
		}
		reg.PutField(Field{GUID: f.GUID, Team: f.Team, Points: pts})
	}
	logger.L().Debug("scene_load_done", "portals", len(fs.Portals), "links", len(fs.Links), "fields", len(fs.Fields))
	return nil
}

// LoadFile：读取场景文件；路径不存在时返回空注册表而非错误
func LoadFile(path string) (*Registry, error) {
	reg := NewRegistry()
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			logger.L().Info("scene_file_missing", "path", path)
			return reg, nil
		}
		return nil, err
	}
	defer f.Close()
	if err := Load(f, reg); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return reg, nil
}
