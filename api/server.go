/*
 * NetIDE Shim - OpenFlow to NetIDE Core Relay
 *
 * Copyright (C) 2026 The NetIDE Shim Authors.
 *
 * Derived from Cherry - An OpenFlow Controller,
 * Copyright (C) 2015 Samjung Data Service, Inc.
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU General Public License as published by
 * the Free Software Foundation; either version 2 of the License, or
 * any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU General Public License along
 * with this program; if not, write to the Free Software Foundation, Inc.,
 * 51 Franklin Street, Fifth Floor, Boston, MA 02110-1301 USA.
 */

package api

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/hashsdn/hashsdn-netide/network"
	"github.com/hashsdn/hashsdn-netide/wire"

	"github.com/ant0ine/go-json-rest/rest"
	"github.com/op/go-logging"
)

var (
	logger = logging.MustGetLogger("api")
)

type Server struct {
	Port uint16
	TLS  struct {
		Cert string // Path for a TLS certification file.
		Key  string // Path for a TLS private key file.
	}
	Controller Controller
}

// Controller is the read-only view of the shim exposed by the status API.
type Controller interface {
	Switches() []network.SwitchStatus
	Protocols() []wire.ProtocolPair
}

func (r *Server) validate() error {
	if r.Controller == nil {
		return errors.New("nil controller")
	}

	return nil
}

// Handler returns the HTTP handler serving the status API.
func (r *Server) Handler() (http.Handler, error) {
	if err := r.validate(); err != nil {
		return nil, err
	}

	api := rest.NewApi()
	// Middleware to set the CORS header.
	api.Use(rest.MiddlewareSimple(func(handler rest.HandlerFunc) rest.HandlerFunc {
		return func(writer rest.ResponseWriter, request *rest.Request) {
			writer.Header().Set("Access-Control-Allow-Origin", "*")
			handler(writer, request)
		}
	}))
	router, err := rest.MakeRouter(
		rest.Get("/api/v1/switch", r.listSwitch),
		rest.Get("/api/v1/switch/:dpid", r.getSwitch),
		rest.Get("/api/v1/protocol", r.listProtocol),
	)
	if err != nil {
		return nil, err
	}
	api.SetApp(router)

	return api.MakeHandler(), nil
}

func (r *Server) Serve() error {
	handler, err := r.Handler()
	if err != nil {
		return err
	}

	// Listen on all interfaces.
	addr := fmt.Sprintf(":%v", r.Port)
	logger.Infof("serving the status API on %v", addr)
	if r.TLS.Cert != "" && r.TLS.Key != "" {
		err = http.ListenAndServeTLS(addr, r.TLS.Cert, r.TLS.Key, handler)
	} else {
		err = http.ListenAndServe(addr, handler)
	}

	return err
}

func (r *Server) listSwitch(w rest.ResponseWriter, req *rest.Request) {
	switches := r.Controller.Switches()
	if switches == nil {
		switches = []network.SwitchStatus{}
	}
	logger.Debugf("listing %v switches for %v", len(switches), req.RemoteAddr)

	w.WriteJson(Response{Status: StatusOkay, Data: switches})
}

func (r *Server) getSwitch(w rest.ResponseWriter, req *rest.Request) {
	// Accepts decimal and 0x prefixed hexadecimal DPIDs.
	dpid, err := strconv.ParseUint(req.PathParam("dpid"), 0, 64)
	if err != nil {
		w.WriteJson(Response{Status: StatusInvalidParameter, Message: fmt.Sprintf("invalid DPID: %v", req.PathParam("dpid"))})
		return
	}

	for _, sw := range r.Controller.Switches() {
		if sw.DPID == dpid {
			w.WriteJson(Response{Status: StatusOkay, Data: sw})
			return
		}
	}
	w.WriteJson(Response{Status: StatusNotFound, Message: fmt.Sprintf("unknown DPID: %v", dpid)})
}

func (r *Server) listProtocol(w rest.ResponseWriter, req *rest.Request) {
	protocols := r.Controller.Protocols()
	if protocols == nil {
		protocols = []wire.ProtocolPair{}
	}

	w.WriteJson(Response{Status: StatusOkay, Data: protocols})
}
