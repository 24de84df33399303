package scene

import "portal-data/internal/geo"

// 文档注释：渲染层当前已物化的三类实体
// 背景：门户、链接、控制场分别由渲染层维护；本模块只读，不感知绘制与生命周期。
// 约束：Link 为有向边（Origin → Dest）；Field 恰有三个顶点，顶点顺序对成员判定无意义。
type Portal struct {
	GUID     string
	Coord    geo.E6
	ResCount int
	Level    int
	Team     string
	Title    string
}

// Endpoint：链接端点或控制场顶点（guid + 坐标）
type Endpoint struct {
	GUID  string
	Coord geo.E6
}

type Link struct {
	GUID   string
	Origin Endpoint
	Dest   Endpoint
	Team   string
}

type Field struct {
	GUID   string
	Points [3]Endpoint
	Team   string
}

// 只读来源接口：Resolver 与 Index 仅依赖这些方法，便于以合成快照测试
type PortalSource interface {
	Portal(guid string) (Portal, bool)
	Portals() []Portal
}

type LinkSource interface {
	Links() []Link
}

type FieldSource interface {
	Fields() []Field
}
