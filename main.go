// file: main.go
package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"

	"github.com/tubuzu/learn-together-backend/internals/configs"
	database "github.com/tubuzu/learn-together-backend/internals/databases"
	helper "github.com/tubuzu/learn-together-backend/internals/helpers"
	"github.com/tubuzu/learn-together-backend/internals/middlewares"
	"github.com/tubuzu/learn-together-backend/internals/route"
)

func main() {
	configs.LoadEnv()

	database.ConnectDB()
	database.TunePool()
	database.WarmUpQueries()

	app := fiber.New(fiber.Config{
		AppName:      "LearnTogether Backend",
		JSONEncoder:  sonic.Marshal,
		JSONDecoder:  sonic.Unmarshal,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
		ErrorHandler: helper.ErrorHandler,
	})

	middlewares.SetupMiddlewares(app)
	sched := route.SetupRoutes(app, database.DB)

	port := configs.GetEnv("PORT", "3000")
	go func() {
		log.Printf("🚀 Listening on :%s", port)
		if err := app.Listen(":" + port); err != nil {
			log.Fatalf("❌ Server stopped: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("⚠️ Shutting down...")
	sched.Shutdown()
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		log.Printf("❌ Shutdown error: %v", err)
	}
	log.Println("✅ Server stopped cleanly.")
}
