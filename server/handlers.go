package server

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/theoremus-urban-solutions/mta-arrivals/arrivals"
)

type stationArrivalsResponse struct {
	StopID        string                `json:"stop_id"`
	StationName   string                `json:"station_name"`
	Arrivals      []arrivals.Prediction `json:"arrivals"`
	TotalArrivals int                   `json:"total_arrivals"`
}

type routeArrivalsResponse struct {
	RouteID        string                           `json:"route_id"`
	HorizonMinutes int                              `json:"horizon_minutes"`
	Stations       map[string][]arrivals.Prediction `json:"stations"`
}

type healthResponse struct {
	Status   string `json:"status"`
	Stations int    `json:"stations"`
}

func (s *Server) handleStationArrivals(w http.ResponseWriter, r *http.Request) {
	stopID := mux.Vars(r)["stop_id"]

	name, ok := s.directory.NameOf(stopID)
	if !ok {
		s.writeError(w, r, &NotFoundError{Msg: "Station with stop_id '" + stopID + "' not found"})
		return
	}
	limit, err := parseNonNegativeInt("limit", r.URL.Query().Get("limit"), s.opts.DefaultLimit)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	list := s.arrivals.StationArrivals(r.Context(), stopID, s.opts.HorizonMinutes)
	total := len(list)
	if limit < total {
		list = list[:limit]
	}

	writeJSON(w, http.StatusOK, stationArrivalsResponse{
		StopID:        stopID,
		StationName:   name,
		Arrivals:      list,
		TotalArrivals: total,
	})
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	if err := validateSearchQuery(s.validate, q); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, s.directory.Search(q))
}

func (s *Server) handleAllStations(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.directory.AllNames())
}

func (s *Server) handleStationInfo(w http.ResponseWriter, r *http.Request) {
	stopID := mux.Vars(r)["stop_id"]
	info, ok := s.directory.Info(stopID)
	if !ok {
		s.writeError(w, r, &NotFoundError{Msg: "Station with stop_id '" + stopID + "' not found"})
		return
	}
	writeJSON(w, http.StatusOK, info)
}

func (s *Server) handleRouteArrivals(w http.ResponseWriter, r *http.Request) {
	routeID := mux.Vars(r)["route_id"]

	minutes, err := parseNonNegativeInt("minutes", r.URL.Query().Get("minutes"), s.opts.HorizonMinutes)
	if err == nil {
		err = validateMinutes(s.validate, minutes)
	}
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, routeArrivalsResponse{
		RouteID:        routeID,
		HorizonMinutes: minutes,
		Stations:       s.arrivals.RouteArrivals(r.Context(), routeID, minutes),
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok", Stations: s.directory.Len()})
}
