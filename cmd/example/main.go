// Package main provides a basic example of serving HTTP/2 with the cowboy
// connection engine and a hand-written stream handler.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/potatosalad/cowboy/pkg/cowboy"
)

// exampleHandler serves a few routes demonstrating the command set:
// complete responses, streaming, file transfer, server push, and worker
// tasks reporting back through Info messages.
type exampleHandler struct {
	compress cowboy.CompressConfig
}

type requestState struct {
	req  *cowboy.Request
	body []byte
}

func (h *exampleHandler) Init(streamID uint32, req *cowboy.Request, _ any) ([]cowboy.Command, cowboy.State, error) {
	st := &requestState{req: req}
	if req.HasBody {
		// Wait for DATA frames before answering.
		return nil, st, nil
	}
	return h.respond(st), st, nil
}

func (h *exampleHandler) Data(streamID uint32, fin bool, _ int64, p []byte, s cowboy.State) ([]cowboy.Command, cowboy.State, error) {
	st := s.(*requestState)
	st.body = append(st.body, p...)
	if !fin {
		return nil, st, nil
	}
	return h.respond(st), st, nil
}

func (h *exampleHandler) Info(streamID uint32, msg any, s cowboy.State) ([]cowboy.Command, cowboy.State, error) {
	st := s.(*requestState)
	body, ok := msg.([]byte)
	if !ok {
		return nil, st, nil
	}
	return []cowboy.Command{
		cowboy.Data{Fin: true, Chunk: body},
		cowboy.Stop{},
	}, st, nil
}

func (h *exampleHandler) Terminate(streamID uint32, reason cowboy.Reason, _ cowboy.State) {
	if reason.Kind != cowboy.ReasonNormal {
		log.Printf("stream %d terminated: %v", streamID, reason)
	}
}

func (h *exampleHandler) respond(st *requestState) []cowboy.Command {
	req := st.req
	switch req.Path {
	case "/":
		resp := cowboy.Response{
			Status:  200,
			Headers: [][2]string{{"content-type", "text/plain; charset=utf-8"}},
			Body:    []byte("Welcome!\n"),
		}
		return []cowboy.Command{cowboy.Compress(req, resp, h.compress), cowboy.Stop{}}

	case "/echo":
		return []cowboy.Command{
			cowboy.Response{
				Status:  200,
				Headers: [][2]string{{"content-type", "application/octet-stream"}},
				Body:    st.body,
			},
			cowboy.Stop{},
		}

	case "/file":
		name := req.Qs
		if name == "" {
			name = "README.md"
		}
		return []cowboy.Command{
			cowboy.Headers{Status: 200, Headers: [][2]string{{"content-type", "application/octet-stream"}}},
			cowboy.SendFile{Fin: true, Path: name},
			cowboy.Stop{},
		}

	case "/push":
		return []cowboy.Command{
			cowboy.Push{
				Method: "GET",
				Scheme: req.Scheme,
				Host:   req.Host,
				Port:   req.Port,
				Path:   "/",
			},
			cowboy.Response{
				Status:  200,
				Headers: [][2]string{{"content-type", "text/html"}},
				Body:    []byte(`<html><body><a href="/">pushed</a></body></html>`),
			},
			cowboy.Stop{},
		}

	case "/slow":
		// Offload slow work to a worker task; the result comes back as an
		// Info message addressed to this stream.
		ctx, cancel := context.WithCancel(context.Background())
		go func() {
			defer cancel()
			select {
			case <-time.After(250 * time.Millisecond):
				req.Conn.Info(req.StreamID, []byte("done after a while\n"))
			case <-ctx.Done():
			}
		}()
		return []cowboy.Command{
			cowboy.Headers{Status: 200, Headers: [][2]string{{"content-type", "text/plain"}}},
			cowboy.Spawn{Stop: cancel},
		}

	default:
		return []cowboy.Command{
			cowboy.ErrorResponse{
				Status:  404,
				Headers: [][2]string{{"content-type", "text/plain"}},
				Body:    []byte(fmt.Sprintf("no route for %s\n", req.Path)),
			},
			cowboy.Stop{},
		}
	}
}

func main() {
	config := cowboy.DefaultConfig()
	config.Logger = log.New(os.Stdout, "[cowboy] ", log.LstdFlags)
	if addr := os.Getenv("EXAMPLE_ADDR"); addr != "" {
		config.Addr = addr
	}

	server := cowboy.New(config)

	go func() {
		if err := server.ListenAndServe(&exampleHandler{compress: cowboy.DefaultCompressConfig()}); err != nil {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Stop(ctx); err != nil {
		log.Printf("shutdown error: %v", err)
	}
}
