// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package handlers adapts the compiled-template service to HTTP.
package handlers

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"soyview/internal/middleware"
	"soyview/internal/soyjs"
)

// Scripts serves Soy templates compiled to JavaScript.
type Scripts struct {
	service *soyjs.Service
}

// NewScripts creates the handler group for compiled templates.
func NewScripts(service *soyjs.Service) *Scripts {
	return &Scripts{service: service}
}

// TemplateJS handles GET /soy/{templateFileName}.js. The wildcard may span
// directories ("admin/menu.js"); anything not ending in .js is not found.
func (s *Scripts) TemplateJS(w http.ResponseWriter, r *http.Request) {
	name, ok := strings.CutSuffix(chi.URLParam(r, "*"), ".js")
	if !ok {
		http.NotFound(w, r)
		return
	}
	if msg := validateTemplateName(name); msg != "" {
		http.Error(w, msg, http.StatusBadRequest)
		return
	}

	res, err := s.service.CompiledTemplate(r.Context(), name, r)
	if err != nil {
		var nf *soyjs.NotFoundError
		if errors.As(err, &nf) {
			http.Error(w, nf.Message, http.StatusNotFound)
			return
		}
		slog.Error("compiled template failed",
			"error", err,
			"template", name,
			"request_id", middleware.RequestIDFrom(r.Context()),
		)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	for k, v := range res.Header {
		w.Header()[k] = v
	}
	w.WriteHeader(res.Status)
	io.WriteString(w, res.Source)
}
