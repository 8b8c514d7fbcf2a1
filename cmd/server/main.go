package main

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"society-backend/internal/admin"
	"society-backend/internal/apperr"
	"society-backend/internal/auth"
	"society-backend/internal/config"
	"society-backend/internal/database"
	"society-backend/internal/ledger"
	"society-backend/internal/member"
	"society-backend/internal/notify"
	"society-backend/internal/society"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	db, err := database.Init(cfg)
	if err != nil {
		log.Fatalf("init database: %v", err)
	}

	broker := notify.NewBroker()

	authHandler := auth.NewHandler(db, cfg)
	adminHandler := admin.NewHandler(db)
	societyHandler := society.NewHandler(db, cfg, broker)
	memberHandler := member.NewHandler(db, cfg)
	ledgerHandler := ledger.NewHandler(ledger.NewService(db, broker))
	streamHandler := notify.NewStreamHandler(db, broker)

	app := fiber.New(fiber.Config{
		ErrorHandler: errorHandler,
	})

	corsOrigins := strings.Split(cfg.App.CORSOrigins, ",")
	for i := range corsOrigins {
		corsOrigins[i] = strings.TrimSpace(corsOrigins[i])
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: strings.Join(corsOrigins, ","),
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
	}))

	api := app.Group("/api")

	// Public
	api.Post("/auth/societies", authHandler.RegisterSociety)
	api.Post("/auth/members", authHandler.RegisterMember)
	api.Post("/auth/login/developer", authHandler.LoginDeveloper)
	api.Post("/auth/login/society", authHandler.LoginSociety)
	api.Post("/auth/login/member", authHandler.LoginMember)
	api.Get("/societies", societyHandler.Directory)

	// Protected
	protected := api.Group("")
	protected.Use(auth.JWTMiddleware(cfg))

	// Developer routes
	adminRoutes := protected.Group("/admin")
	adminRoutes.Use(auth.RequireRole(auth.RoleDeveloper))
	adminRoutes.Get("/societies", adminHandler.ListSocieties)
	adminRoutes.Post("/societies/:id/approve", adminHandler.ApproveSociety)
	adminRoutes.Post("/societies/:id/disapprove", adminHandler.DisapproveSociety)

	// Society routes
	societyRoutes := protected.Group("/society")
	societyRoutes.Use(auth.RequireRole(auth.RoleSociety))
	societyRoutes.Get("", societyHandler.Profile)
	societyRoutes.Get("/finance", societyHandler.Finance)
	societyRoutes.Get("/members", societyHandler.Members)
	societyRoutes.Get("/members/export", societyHandler.ExportMembers)
	societyRoutes.Get("/members/:id", societyHandler.GetMember)
	societyRoutes.Get("/members/:id/logs", societyHandler.MemberLogs)
	societyRoutes.Post("/members/:id/approve", societyHandler.ApproveMember)
	societyRoutes.Post("/members/:id/disapprove", societyHandler.DisapproveMember)
	societyRoutes.Delete("/members/:id", societyHandler.RemoveMember)
	societyRoutes.Get("/logs", societyHandler.Logs)
	societyRoutes.Get("/removed-logs", societyHandler.RemovedLogs)

	// Ledger operations
	societyRoutes.Post("/fees/monthly", ledgerHandler.MonthlyFee)
	societyRoutes.Post("/fees/extra", ledgerHandler.ExtraFee)
	societyRoutes.Post("/members/:id/fines", ledgerHandler.Fine)
	societyRoutes.Post("/members/:id/refinement-fees", ledgerHandler.RefinementFee)
	societyRoutes.Post("/members/:id/donations", ledgerHandler.MemberDonation)
	societyRoutes.Post("/donations", ledgerHandler.ReceivedDonation)
	societyRoutes.Post("/expenses", ledgerHandler.Expense)
	societyRoutes.Put("/logs/:logId/tracks/:trackId", ledgerHandler.SetTrackPaid)
	societyRoutes.Put("/logs/:id", ledgerHandler.Revise)
	societyRoutes.Delete("/logs/:id", ledgerHandler.Retract)

	// Member routes
	memberRoutes := protected.Group("/member")
	memberRoutes.Use(auth.RequireRole(auth.RoleMember))
	memberRoutes.Get("", memberHandler.Me)
	memberRoutes.Get("/logs", memberHandler.Logs)
	memberRoutes.Get("/colleagues", memberHandler.Colleagues)

	// Real-time streams
	streamRoutes := protected.Group("/streams")
	streamRoutes.Use(auth.RequireRole(auth.RoleMember))
	streamRoutes.Get("/member/logs", streamHandler.MemberLogs)
	streamRoutes.Get("/member/fines", streamHandler.MemberFines)
	streamRoutes.Get("/member/tracks", streamHandler.MemberTracks)
	streamRoutes.Get("/member/colleagues", streamHandler.MemberColleagues)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Address, cfg.Server.Port)
	log.Println("server listening on", addr)
	if err := app.Listen(addr); err != nil {
		log.Fatal(err)
	}
}

func errorHandler(c *fiber.Ctx, err error) error {
	var appErr *apperr.Error
	if errors.As(err, &appErr) {
		body := fiber.Map{"error": appErr.Message}
		if len(appErr.Fields) > 0 {
			body["fields"] = appErr.Fields
		}
		return c.Status(apperr.Status(appErr.Kind)).JSON(body)
	}

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return c.Status(fiberErr.Code).JSON(fiber.Map{"error": fiberErr.Message})
	}

	log.Println("unexpected error:", err)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error": "unexpected server error",
	})
}
