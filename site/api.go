package site

import (
	"errors"
	"runtime"

	"github.com/smarthome/camserve/camera"
	"github.com/smarthome/camserve/router"
	"github.com/smarthome/camserve/web"
)

func (s *site) api() *router.App {
	api := router.New("api", router.WithLogger(s.log))
	api.HandleFunc("/system", s.apiSystem)
	api.HandleFunc("/camera", s.apiCamera)
	return api
}

type apiError struct {
	Error  string `json:"error"`
	Status string `json:"status"`
}

type apiSuccess struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

func jsonError(w *web.Response, status int, msg string) error {
	return web.JSON(w, status, apiError{Error: msg, Status: "error"})
}

type systemInfo struct {
	Uptime            int64  `json:"uptime"`
	HeapInUse         uint64 `json:"heap_in_use"`
	RequestsHandled   uint64 `json:"requests_handled"`
	ErrorsCount       uint64 `json:"errors_count"`
	ActiveConnections int    `json:"active_connections"`
}

func (s *site) apiSystem(req *web.Request, w *web.Response) error {
	if req.Method != "GET" {
		return jsonError(w, web.StatusMethodNotAllowed, "method not allowed")
	}
	st := s.stats()
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)

	return web.JSON(w, web.StatusOK, systemInfo{
		Uptime:            int64(st.Uptime.Seconds()),
		HeapInUse:         ms.HeapInuse,
		RequestsHandled:   st.Requests,
		ErrorsCount:       st.Errors,
		ActiveConnections: st.Active,
	})
}

type cameraInfo struct {
	Settings camera.Settings `json:"settings"`
	Status   string          `json:"status"`
}

func (s *site) apiCamera(req *web.Request, w *web.Response) error {
	switch req.Method {
	case "GET":
		return web.JSON(w, web.StatusOK, cameraInfo{Settings: s.cam.Settings(), Status: "active"})
	case "POST":
		next := s.cam.Settings()
		if err := req.ReadJSON(&next); err != nil {
			if errors.Is(err, web.ErrBodyTooLarge) {
				return jsonError(w, web.StatusRequestTooLarge, err.Error())
			}
			return jsonError(w, web.StatusBadRequest, err.Error())
		}
		if err := s.cam.Apply(next); err != nil {
			return jsonError(w, web.StatusBadRequest, err.Error())
		}
		return web.JSON(w, web.StatusOK, apiSuccess{Status: "success", Message: "settings applied"})
	default:
		return jsonError(w, web.StatusMethodNotAllowed, "method not allowed")
	}
}
