// 包 api：把门户数据查询暴露为 JSON 路由，便于面板与计分工具跨进程调用
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"portal-data/internal/detail"
	"portal-data/internal/geo"
	"portal-data/internal/logger"
	"portal-data/internal/metrics"
	"portal-data/internal/portaldata"
)

type linksResult struct {
	GUID  string   `json:"guid"`
	In    []string `json:"in"`
	Out   []string `json:"out"`
	Count int      `json:"count"`
}

type fieldsResult struct {
	GUID   string   `json:"guid"`
	Fields []string `json:"fields"`
	Count  int      `json:"count"`
}

type latLngResult struct {
	GUID  string  `json:"guid"`
	LatE6 int32   `json:"latE6"`
	LngE6 int32   `json:"lngE6"`
	Lat   float64 `json:"lat"`
	Lng   float64 `json:"lng"`
}

type guidResult struct {
	GUID  string `json:"guid"`
	LatE6 int32  `json:"latE6"`
	LngE6 int32  `json:"lngE6"`
}

type errorResult struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("content-type", "application/json; charset=utf-8")
	w.Header().Set("cache-control", "no-store")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, errorResult{Error: msg})
}

// instrument：按路由计数并记录耗时
func instrument(route string, h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		t0 := time.Now()
		metrics.RequestsTotal.WithLabelValues(route).Inc()
		h(w, r)
		metrics.RequestDurationMs.Observe(float64(time.Since(t0).Milliseconds()))
	}
}

func parseE6(s string) (int32, error) {
	n, err := strconv.ParseInt(s, 10, 32)
	return int32(n), err
}

var errPosition = errors.New("latE6/lngE6 integers or lat/lng degrees required")

// positionParam：优先读取微度 latE6/lngE6；两者都缺省时接受十进制度 lat/lng 并四舍五入到微度
func positionParam(q url.Values) (geo.E6, error) {
	if q.Has("latE6") || q.Has("lngE6") {
		lat, err1 := parseE6(q.Get("latE6"))
		lng, err2 := parseE6(q.Get("lngE6"))
		if err1 != nil || err2 != nil {
			return geo.E6{}, errPosition
		}
		return geo.New(lat, lng), nil
	}
	lat, err1 := strconv.ParseFloat(q.Get("lat"), 64)
	lng, err2 := strconv.ParseFloat(q.Get("lng"), 64)
	if err1 != nil || err2 != nil {
		return geo.E6{}, errPosition
	}
	return geo.FromDegrees(lat, lng), nil
}

// intParam：缺省为 0，非整数报错
func intParam(r *http.Request, key string) (int, error) {
	s := r.URL.Query().Get(key)
	if s == "" {
		return 0, nil
	}
	return strconv.Atoi(s)
}

// 文档注释：构建 API 路由
// 约束：guid 缺失或坐标非整数返回 400；未找到返回 404，与库层的未命中语义一致。sink 为 nil 时不注册详情写入路由。
func BuildRoutes(svc *portaldata.Service, sink detail.Writer) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("/portal/links", instrument("links", func(w http.ResponseWriter, r *http.Request) {
		guid := r.URL.Query().Get("guid")
		if guid == "" {
			writeError(w, http.StatusBadRequest, "missing guid")
			return
		}
		l := svc.GetPortalLinks(guid)
		writeJSON(w, http.StatusOK, linksResult{GUID: guid, In: l.In, Out: l.Out, Count: l.Count()})
	}))

	mux.HandleFunc("/portal/fields", instrument("fields", func(w http.ResponseWriter, r *http.Request) {
		guid := r.URL.Query().Get("guid")
		if guid == "" {
			writeError(w, http.StatusBadRequest, "missing guid")
			return
		}
		fs := svc.GetPortalFields(guid)
		writeJSON(w, http.StatusOK, fieldsResult{GUID: guid, Fields: fs, Count: len(fs)})
	}))

	mux.HandleFunc("/portal/latlng", instrument("latlng", func(w http.ResponseWriter, r *http.Request) {
		guid := r.URL.Query().Get("guid")
		if guid == "" {
			writeError(w, http.StatusBadRequest, "missing guid")
			return
		}
		pos, ok := svc.FindPortalLatLng(guid)
		if !ok {
			writeError(w, http.StatusNotFound, "not found")
			return
		}
		ll := pos.LatLng()
		writeJSON(w, http.StatusOK, latLngResult{GUID: guid, LatE6: pos.Lat, LngE6: pos.Lng, Lat: ll.Lat, Lng: ll.Lng})
	}))

	mux.HandleFunc("/portal/guid", instrument("guid", func(w http.ResponseWriter, r *http.Request) {
		pos, err := positionParam(r.URL.Query())
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		guid, ok := svc.FindPortalGuidByPositionE6(pos.Lat, pos.Lng)
		if !ok {
			writeError(w, http.StatusNotFound, "not found")
			return
		}
		writeJSON(w, http.StatusOK, guidResult{GUID: guid, LatE6: pos.Lat, LngE6: pos.Lng})
	}))

	mux.HandleFunc("/portal/position", instrument("position", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.Header().Set("allow", http.MethodPost)
			writeError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}
		q := r.URL.Query()
		guid := q.Get("guid")
		pos, err := positionParam(q)
		if guid == "" || err != nil {
			writeError(w, http.StatusBadRequest, "guid and a position are required")
			return
		}
		svc.PushPortalGuidPositionCache(guid, pos.Lat, pos.Lng)
		w.WriteHeader(http.StatusNoContent)
	}))

	mux.HandleFunc("/portal/apgain", instrument("portal_apgain", func(w http.ResponseWriter, r *http.Request) {
		guid := r.URL.Query().Get("guid")
		if guid == "" {
			writeError(w, http.StatusBadRequest, "missing guid")
			return
		}
		g, ok := svc.GetPortalApGain(guid)
		if !ok {
			writeError(w, http.StatusNotFound, "portal not live")
			return
		}
		writeJSON(w, http.StatusOK, g)
	}))

	mux.HandleFunc("/apgain", instrument("apgain", func(w http.ResponseWriter, r *http.Request) {
		res, err1 := intParam(r, "res")
		links, err2 := intParam(r, "links")
		fields, err3 := intParam(r, "fields")
		if err1 != nil || err2 != nil || err3 != nil {
			writeError(w, http.StatusBadRequest, "res/links/fields must be integers")
			return
		}
		writeJSON(w, http.StatusOK, svc.PortalApGainMaths(res, links, fields))
	}))

	if sink != nil {
		// 详情写入：同时把坐标推入位置缓存
		mux.HandleFunc("/portal/detail", instrument("detail", func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost {
				w.Header().Set("allow", http.MethodPost)
				writeError(w, http.StatusMethodNotAllowed, "method not allowed")
				return
			}
			var d detail.Detail
			if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<16)).Decode(&d); err != nil || d.GUID == "" {
				writeError(w, http.StatusBadRequest, "invalid detail")
				return
			}
			if err := sink.Put(r.Context(), d); err != nil {
				logger.L().Error("detail_put_error", "guid", d.GUID, "err", err)
				writeError(w, http.StatusBadGateway, "detail store unavailable")
				return
			}
			svc.PushPortalGuidPositionCache(d.GUID, d.LatE6, d.LngE6)
			w.WriteHeader(http.StatusNoContent)
		}))
	}

	return mux
}
