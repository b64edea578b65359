// Copyright (c) 2026 Applytrack. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package web serves the built single-page frontend.
package web

import (
	"errors"
	"io/fs"
	"net/http"
	"os"
	"path"
	"strings"
)

const indexFile = "index.html"

// SPAHandler serves static assets and falls back to index.html so the client
// router can resolve deep links.
type SPAHandler struct {
	root       fs.FS
	fileServer http.Handler
}

// NewSPAHandler builds a handler over the directory dir. It returns an error
// when dir does not exist or holds no index.html.
func NewSPAHandler(dir string) (*SPAHandler, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, errors.New("web: static path is not a directory: " + dir)
	}
	return NewSPAHandlerFS(os.DirFS(dir))
}

// NewSPAHandlerFS is [NewSPAHandler] over an arbitrary file system.
func NewSPAHandlerFS(root fs.FS) (*SPAHandler, error) {
	if _, err := fs.Stat(root, indexFile); err != nil {
		return nil, errors.New("web: missing " + indexFile)
	}
	return &SPAHandler{root: root, fileServer: http.FileServerFS(root)}, nil
}

// ServeHTTP implements [http.Handler].
func (handler *SPAHandler) ServeHTTP(writer http.ResponseWriter, request *http.Request) {
	if request.Method != http.MethodGet && request.Method != http.MethodHead {
		writer.Header().Set("Allow", "GET, HEAD")
		http.Error(writer, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	name := strings.TrimPrefix(path.Clean("/"+request.URL.Path), "/")
	if name == "" || name == indexFile {
		handler.serveIndex(writer, request)
		return
	}

	info, err := fs.Stat(handler.root, name)
	if err != nil || info.IsDir() {
		handler.serveIndex(writer, request)
		return
	}

	handler.fileServer.ServeHTTP(writer, request)
}

func (handler *SPAHandler) serveIndex(writer http.ResponseWriter, request *http.Request) {
	writer.Header().Set("Cache-Control", "no-cache")
	http.ServeFileFS(writer, request, handler.root, indexFile)
}
