package socketio_types

import (
	"sync"

	"github.com/zishang520/socket.io/v2/socket"
)

// SocketServer wraps the socket.io server together with a map of the
// currently connected users, keyed by user id.
type SocketServer struct {
	Sio_server *socket.Server
	// Map to track user id -> socket connections
	UserConnections map[string]*socket.Socket
	mutex           sync.RWMutex
}

func NewSocketServer() *SocketServer {
	return &SocketServer{
		UserConnections: make(map[string]*socket.Socket),
	}
}

// Add methods to manage connections
func (s *SocketServer) AddConnection(userID string, socket *socket.Socket) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.UserConnections[userID] = socket
}

func (s *SocketServer) RemoveConnection(userID string) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	delete(s.UserConnections, userID)
}

func (s *SocketServer) GetConnection(userID string) (*socket.Socket, bool) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	socket, exists := s.UserConnections[userID]
	return socket, exists
}

// NotifyUser emits an event to a single connected user. Users that are
// offline are silently skipped; notifications are best-effort.
func (s *SocketServer) NotifyUser(userID string, event string, payload interface{}) {
	client, exists := s.GetConnection(userID)
	if !exists {
		return
	}
	client.Emit(event, payload)
}
