// 包 relation：按门户 guid 扫描当前链接与控制场的归属关系
package relation

import "portal-data/internal/scene"

// Links：门户的入向/出向链接 guid
type Links struct {
	In  []string `json:"in"`
	Out []string `json:"out"`
}

func (l Links) Count() int { return len(l.In) + len(l.Out) }

// Index：基于当前链接/控制场集合的即时扫描，不维护反向索引
type Index struct {
	links  scene.LinkSource
	fields scene.FieldSource
}

func New(links scene.LinkSource, fields scene.FieldSource) *Index {
	return &Index{links: links, fields: fields}
}

// LinksOf：起点匹配计为出向，终点匹配计为入向；自环同时出现在两侧
func (x *Index) LinksOf(guid string) Links {
	out := Links{In: []string{}, Out: []string{}}
	if x.links == nil {
		return out
	}
	for _, l := range x.links.Links() {
		if l.Origin.GUID == guid {
			out.Out = append(out.Out, l.GUID)
		}
		if l.Dest.GUID == guid {
			out.In = append(out.In, l.GUID)
		}
	}
	return out
}

func (x *Index) LinkCount(guid string) int { return x.LinksOf(guid).Count() }

// FieldsOf：任一顶点匹配即计入，每个控制场至多出现一次
func (x *Index) FieldsOf(guid string) []string {
	out := []string{}
	if x.fields == nil {
		return out
	}
	for _, f := range x.fields.Fields() {
		for _, pt := range f.Points {
			if pt.GUID == guid {
				out = append(out, f.GUID)
				break
			}
		}
	}
	return out
}

func (x *Index) FieldCount(guid string) int { return len(x.FieldsOf(guid)) }
