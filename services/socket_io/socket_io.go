package socket_io

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"GameHub/middleware"
	models "GameHub/models/postgres"
	socketio_types "GameHub/services/socket_io/types"

	"github.com/gin-gonic/gin"
	"github.com/zishang520/engine.io/v2/types"
	"github.com/zishang520/socket.io/v2/socket"
	"gorm.io/gorm"
)

type MySocketServer socketio_types.SocketServer

// Start mounts the socket.io endpoint used for friend notifications.
// Clients authenticate by sending their JWT in the handshake auth payload.
func (sio *MySocketServer) Start(router *gin.Engine, db *gorm.DB) {
	c := socket.DefaultServerOptions()
	c.SetServeClient(true)
	// Higher ping interval and timeout to reduce network load and support
	// slower networks
	c.SetPingInterval(5 * time.Second)
	c.SetPingTimeout(3 * time.Second)
	c.SetMaxHttpBufferSize(1000000)
	c.SetConnectTimeout(10 * time.Second)
	c.SetTransports(types.NewSet("polling", "websocket"))
	c.SetCors(&types.Cors{
		Origin:      "*",
		Credentials: true,
	})

	sio.UserConnections = make(map[string]*socket.Socket)

	sio.Sio_server = socket.NewServer(nil, nil)
	sio.Sio_server.On("connection", func(clients ...interface{}) {
		client := clients[0].(*socket.Socket)

		success, user := verifyUserConnection(client, db)
		if !success {
			return
		}

		(*socketio_types.SocketServer)(sio).AddConnection(user.ID, client)
		fmt.Println("User connected to notifications:", user.Username)

		client.On("disconnecting", func(args ...interface{}) {
			(*socketio_types.SocketServer)(sio).RemoveConnection(user.ID)
		})
	})

	router.POST("/socket.io/*f", gin.WrapH(sio.Sio_server.ServeHandler(c)))
	router.GET("/socket.io/*f", gin.WrapH(sio.Sio_server.ServeHandler(c)))

	SignalC := make(chan os.Signal, 1)
	signal.Notify(SignalC, syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	go func() {
		for s := range SignalC {
			switch s {
			case syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT:
				sio.Sio_server.Close(nil)
				os.Exit(0)
			}
		}
	}()

	fmt.Println("Socket server started")
}

// verifyUserConnection authenticates a socket.io client using the JWT sent
// in the handshake auth payload and resolves the corresponding user.
func verifyUserConnection(client *socket.Socket, db *gorm.DB) (bool, *models.User) {
	authData, ok := client.Handshake().Auth.(map[string]interface{})
	if !ok {
		client.Emit("error", gin.H{"error": "Authentication failed: missing auth data"})
		return false, nil
	}

	userID, err := middleware.Socketio_JWT_decoder(authData)
	if err != nil {
		client.Emit("error", gin.H{
			"error": "Authentication failed: invalid JWT. Remember to set it on the 'authorization' field with the 'Bearer ' prefix.",
		})
		return false, nil
	}

	var user models.User
	if result := db.Where("id = ?", userID).First(&user); result.Error != nil {
		client.Emit("error", gin.H{"error": "Authentication failed: could not find user"})
		return false, nil
	}
	return true, &user
}
