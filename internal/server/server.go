package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/muurk/krakenctl/internal/discovery"
	"github.com/muurk/krakenctl/internal/logging"
	"github.com/muurk/krakenctl/internal/telemetry"
)

// shutdownTimeout bounds how long Shutdown waits for connections to drain.
const shutdownTimeout = 10 * time.Second

// Config holds the server configuration
type Config struct {
	Listen    string // host:port, ":0" picks a free port
	Advertise bool   // announce the server over mDNS
	Instance  string // mDNS instance name, defaults to the hostname
	Firmware  string // reported in mDNS TXT records
	Version   string // krakenctl version, reported in mDNS TXT records
}

// Service is an auxiliary loop run alongside the server, such as the MQTT
// publisher. It must return when ctx is cancelled.
type Service func(ctx context.Context) error

// Server streams cooler telemetry to websocket clients.
type Server struct {
	config   *Config
	poller   *telemetry.Poller
	upgrader websocket.Upgrader
	http     *http.Server
	listener net.Listener
	services map[string]Service
	advert   *discovery.Advertisement

	wg          sync.WaitGroup
	mu          sync.Mutex
	activeConns map[string]*websocket.Conn
	done        chan struct{}
	closeOnce   sync.Once
}

// New creates a new Server instance
func New(config *Config, poller *telemetry.Poller) *Server {
	s := &Server{
		config:   config,
		poller:   poller,
		services: make(map[string]Service),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Telemetry is read-only, so any origin may subscribe.
			CheckOrigin: func(*http.Request) bool { return true },
		},
		activeConns: make(map[string]*websocket.Conn),
		done:        make(chan struct{}),
	}
	s.http = &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: writeWait,
	}
	return s
}

// AddService registers an auxiliary loop started by Start.
func (s *Server) AddService(name string, svc Service) {
	s.services[name] = svc
}

// Listen binds the configured address. Start calls it when needed.
func (s *Server) Listen() error {
	if s.listener != nil {
		return nil
	}
	listener, err := net.Listen("tcp", s.config.Listen)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.config.Listen, err)
	}
	s.listener = listener
	return nil
}

// Addr returns the bound address, or nil before Listen.
func (s *Server) Addr() net.Addr {
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// Start runs the server, the status poller and registered services, and
// blocks until ctx is cancelled, a shutdown signal arrives or the poller
// loses the device.
func (s *Server) Start(ctx context.Context) error {
	if err := s.Listen(); err != nil {
		return err
	}

	logging.Info("Starting telemetry server",
		zap.String("addr", s.listener.Addr().String()),
		zap.Duration("interval", s.poller.Interval()),
	)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Set up signal handling for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	errChan := make(chan error, 2)
	go func() {
		if err := s.http.Serve(s.listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- fmt.Errorf("http server: %w", err)
		}
	}()
	go func() {
		if err := s.poller.Run(ctx); err != nil {
			errChan <- fmt.Errorf("status poller: %w", err)
		}
	}()

	for name, svc := range s.services {
		s.wg.Add(1)
		go func(name string, svc Service) {
			defer s.wg.Done()
			if err := svc(ctx); err != nil {
				logging.Error("Service stopped", zap.String("service", name), zap.Error(err))
			}
		}(name, svc)
	}

	if s.config.Advertise {
		if err := s.advertise(); err != nil {
			// The server is still reachable by address.
			logging.Warn("mDNS advertisement failed", zap.Error(err))
		}
	}

	var runErr error
	select {
	case <-sigChan:
		logging.Info("Shutdown signal received, stopping server...")
	case <-ctx.Done():
	case runErr = <-errChan:
		logging.Error("Server stopped", zap.Error(runErr))
	}
	cancel()

	shutdownCtx, stop := context.WithTimeout(context.Background(), shutdownTimeout)
	defer stop()
	if err := s.Shutdown(shutdownCtx); err != nil && runErr == nil {
		runErr = err
	}
	return runErr
}

func (s *Server) advertise() error {
	port := 0
	if tcp, ok := s.listener.Addr().(*net.TCPAddr); ok {
		port = tcp.Port
	}
	instance := s.config.Instance
	if instance == "" {
		instance, _ = os.Hostname()
	}

	advert, err := discovery.Advertise(instance, port, discovery.Metadata{
		Firmware: s.config.Firmware,
		Version:  s.config.Version,
		Path:     websocketPath,
	})
	if err != nil {
		return err
	}
	s.advert = advert
	return nil
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	logging.Info("Shutting down server...")

	s.closeOnce.Do(func() { close(s.done) })

	if s.advert != nil {
		s.advert.Shutdown()
	}

	var err error
	if s.listener != nil {
		// Hijacked websocket connections are not tracked by http.Server.
		if shutdownErr := s.http.Shutdown(ctx); shutdownErr != nil {
			err = fmt.Errorf("http shutdown: %w", shutdownErr)
		}
	}

	// Close all active connections
	s.mu.Lock()
	for addr, conn := range s.activeConns {
		logging.Info("Closing active connection", zap.String("remote_addr", addr))
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"),
			time.Now().Add(time.Second))
		_ = conn.Close()
	}
	s.mu.Unlock()

	// Wait for all goroutines to finish with timeout
	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		logging.Info("All connections closed gracefully")
	case <-ctx.Done():
		logging.Warn("Shutdown timeout, forcing close")
	}

	logging.Sync()
	return err
}

// GetActiveConnections returns the number of active websocket clients
func (s *Server) GetActiveConnections() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.activeConns)
}

func (s *Server) track(addr string, conn *websocket.Conn) {
	s.mu.Lock()
	s.activeConns[addr] = conn
	s.mu.Unlock()
}

func (s *Server) untrack(addr string) {
	s.mu.Lock()
	delete(s.activeConns, addr)
	s.mu.Unlock()
}
