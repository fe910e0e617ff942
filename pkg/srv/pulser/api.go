/*
 Licensed under the Apache License, Version 2.0 (the "License");
 you may not use this file except in compliance with the License.
 You may obtain a copy of the License at

     https://www.apache.org/licenses/LICENSE-2.0

 Unless required by applicable law or agreed to in writing, software
 distributed under the License is distributed on an "AS IS" BASIS,
 WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 See the License for the specific language governing permissions and
 limitations under the License.
*/

// go-pulser API
//
// # RESTful APIs to interact with the go-pulser daemon
//
// Schemes: http
// Host: localhost:8010
// Version: 1.0.0
//
//	Consumes:
//	- application/json
//
//	Produces:
//	- application/json
//
// swagger:meta
package pulser

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-openapi/loads"
	"github.com/go-openapi/runtime/middleware"
	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"jinr.ru/greenlab/go-pulser/pkg/config"
	"jinr.ru/greenlab/go-pulser/pkg/log"
	"jinr.ru/greenlab/go-pulser/pkg/srv"
	"jinr.ru/greenlab/go-pulser/pkg/srv/pulser/ifc"
)

const (
	ApiPort = 8010

	DefaultTraceSamples = 64
)

// WordHex is the latched configuration word of a device.
type WordHex struct {
	Word      string `json:"word"`
	HighCount uint32 `json:"high_count"`
	LowCount  uint64 `json:"low_count"`
	Received  bool   `json:"received"`
}

type ApiServer struct {
	context.Context
	*config.Config
	*mux.Router
	pulser ifc.PulserServer
}

var _ ifc.ApiServer = &ApiServer{}

func NewApiServer(ctx context.Context, cfg *config.Config, pulser ifc.PulserServer) (ifc.ApiServer, error) {
	log.Info("Initializing API server with address: %s port: %d", cfg.IP, ApiPort)

	s := &ApiServer{
		Context: ctx,
		Config:  cfg,
		pulser:  pulser,
	}
	return s, nil
}

func (s *ApiServer) Run() error {
	log.Info("Starting API server: address: %s port: %d", s.Config.IP, ApiPort)
	s.configureRouter()
	httpServer := &http.Server{
		Handler: handlers.LoggingHandler(log.Writer(), s.Router),
		Addr:    fmt.Sprintf("%s:%d", s.Config.IP, ApiPort),
	}
	return httpServer.ListenAndServe()
}

func (s *ApiServer) configureRouter() {
	s.Router = mux.NewRouter()
	subRouter := s.Router.PathPrefix("/api").Subrouter()
	// swagger:operation GET /status/{device} status
	// ---
	// summary: read device state, outputs and tick count
	// responses:
	//   "200":
	//     description: device status
	//   "404":
	//     description: device not found
	subRouter.HandleFunc("/status/{device}", s.handleStatus()).Methods("GET")
	// swagger:operation GET /word/{device} word
	// ---
	// summary: read the latched configuration word
	// responses:
	//   "200":
	//     description: latched word and its timing fields
	//   "404":
	//     description: device not found
	subRouter.HandleFunc("/word/{device}", s.handleWordGet()).Methods("GET")
	// swagger:operation GET /word/{device}/history history
	// ---
	// summary: read all configuration words the device has accepted
	// responses:
	//   "200":
	//     description: accepted words, oldest first
	//   "404":
	//     description: device not found
	subRouter.HandleFunc("/word/{device}/history", s.handleHistory()).Methods("GET")
	// swagger:operation GET /control/{action}/{device} control
	// ---
	// summary: drive the enable or reset line of a device
	// responses:
	//   "200":
	//     description: line driven
	//   "400":
	//     description: unknown action
	//   "404":
	//     description: device not found
	subRouter.HandleFunc("/control/{action:enable|disable|reset}/{device}", s.handleControl()).Methods("GET")
	// swagger:operation GET /trace/{device} trace
	// ---
	// summary: read recent output waveform samples
	// responses:
	//   "200":
	//     description: output samples, oldest first
	//   "404":
	//     description: device not found
	subRouter.HandleFunc("/trace/{device}", s.handleTrace()).Methods("GET")

	s.Router.HandleFunc("/swagger.json", s.handleApiSpec()).Methods("GET")
	s.Router.Handle("/docs", middleware.Redoc(middleware.RedocOpts{
		BasePath: "/",
		Path:     "docs",
		SpecURL:  "/swagger.json",
		Title:    "go-pulser API",
	}, nil))
}

func (s *ApiServer) handleStatus() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		vars := mux.Vars(r)
		log.Debug("Handling status request: device: %s", vars["device"])

		d, err := s.pulser.GetDeviceByName(vars["device"])
		if err != nil {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		json.NewEncoder(w).Encode(d.Status())
	}
}

func (s *ApiServer) handleWordGet() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		vars := mux.Vars(r)
		log.Debug("Handling word read request: device: %s", vars["device"])

		d, err := s.pulser.GetDeviceByName(vars["device"])
		if err != nil {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		st := d.Status()
		json.NewEncoder(w).Encode(&WordHex{
			Word:      st.Word,
			HighCount: st.HighCount,
			LowCount:  st.LowCount,
			Received:  st.Received,
		})
	}
}

func (s *ApiServer) handleHistory() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		vars := mux.Vars(r)
		log.Debug("Handling word history request: device: %s", vars["device"])

		if _, err := s.pulser.GetDeviceByName(vars["device"]); err != nil {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		words, err := s.pulser.History(vars["device"])
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		json.NewEncoder(w).Encode(words)
	}
}

func (s *ApiServer) handleControl() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		vars := mux.Vars(r)
		log.Debug("Handling control request: device: %s action: %s", vars["device"], vars["action"])

		d, err := s.pulser.GetDeviceByName(vars["device"])
		if err != nil {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		switch vars["action"] {
		case "enable":
			d.SetEnable(true)
		case "disable":
			d.SetEnable(false)
		case "reset":
			d.Reset()
		default:
			err := srv.ErrUnknownOperation{
				What: "Wrong control action. Must be one of enable/disable/reset",
			}
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		json.NewEncoder(w).Encode(d.Status())
	}
}

func (s *ApiServer) handleTrace() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		vars := mux.Vars(r)

		n := DefaultTraceSamples
		if raw := r.URL.Query().Get("n"); raw != "" {
			parsed, err := strconv.Atoi(raw)
			if err != nil || parsed <= 0 {
				http.Error(w, "n must be a positive integer", http.StatusBadRequest)
				return
			}
			n = parsed
		}
		log.Debug("Handling trace request: device: %s n: %d", vars["device"], n)

		d, err := s.pulser.GetDeviceByName(vars["device"])
		if err != nil {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		json.NewEncoder(w).Encode(d.Trace(n))
	}
}

func (s *ApiServer) handleApiSpec() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		doc, err := loads.Analyzed(json.RawMessage(apiSpecJSON), "2.0")
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write(doc.Raw())
	}
}
