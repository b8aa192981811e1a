package routes

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"ninjapark-backend/controllers"
	"ninjapark-backend/middleware"
	"ninjapark-backend/models"
	"ninjapark-backend/services"
	"ninjapark-backend/storage"
	"ninjapark-backend/utils"
)

// Controllers bundles every handler the router mounts.
type Controllers struct {
	Auth     *controllers.AuthController
	Bookings *controllers.BookingController
	Vouchers *controllers.VoucherController
	Waivers  *controllers.WaiverController
	Calendar *controllers.CalendarController
	Customer *controllers.CustomerController
	Settings *controllers.SettingsController
	Contact  *controllers.ContactController
	Admins   *controllers.AdminUserController
	Roles    *controllers.RoleController
	Audit    *controllers.AuditController
	Uploads  *controllers.UploadController

	Activities   *controllers.ContentController[models.Activity]
	Banners      *controllers.ContentController[models.Banner]
	Faqs         *controllers.ContentController[models.Faq]
	Testimonials *controllers.ContentController[models.Testimonial]
	Pages        *controllers.ContentController[models.StaticPage]
	SocialLinks  *controllers.ContentController[models.SocialLink]
	Invitations  *controllers.ContentController[models.InvitationTemplate]
	Gallery      *controllers.ContentController[models.GalleryItem]
	Pricing      *controllers.ContentController[models.PricingPlan]
}

// Deps are the shared resources the services are built from.
type Deps struct {
	DB             *gorm.DB
	Log            *slog.Logger
	Store          storage.Store
	Mailer         utils.Mailer
	Auth           *services.AuthService
	MaxUploadBytes int64
	// AdminLoginURL goes into invite emails.
	AdminLoginURL string
}

// NewControllers builds every service on d and wraps each in its controller.
func NewControllers(d Deps) Controllers {
	db := d.DB
	settings := services.NewSettingsService(db)
	vouchers := services.NewVoucherService(db)
	audit := services.NewAuditService(db, d.Log)
	exports := services.NewExportService(db)
	bookings := services.NewBookingService(db, vouchers, settings, d.Mailer, d.Log)
	uploads := services.NewUploadService(d.Store)
	if d.MaxUploadBytes > 0 {
		uploads.MaxBytes = d.MaxUploadBytes
	}
	parkName := services.DefaultSettings().ParkName
	cms := services.NewCMS(db)

	return Controllers{
		Auth:     controllers.NewAuthController(d.Auth, audit),
		Bookings: controllers.NewBookingController(bookings, exports, audit),
		Vouchers: controllers.NewVoucherController(vouchers, exports, audit),
		Waivers:  controllers.NewWaiverController(services.NewWaiverService(db, d.Store), exports, audit),
		Calendar: controllers.NewCalendarController(services.NewCalendarService(db, settings), audit),
		Customer: controllers.NewCustomerController(services.NewCustomerService(db), audit),
		Settings: controllers.NewSettingsController(settings, audit),
		Contact:  controllers.NewContactController(services.NewContactService(db, settings, d.Mailer, d.Log), audit),
		Admins: controllers.NewAdminUserController(
			services.NewAdminUserService(db, d.Mailer, d.Log, parkName, d.AdminLoginURL), audit),
		Roles:   controllers.NewRoleController(services.NewRoleService(db), audit),
		Audit:   controllers.NewAuditController(audit),
		Uploads: controllers.NewUploadController(uploads, audit),

		Activities:   controllers.NewContentController(cms.Activities, audit, "Activity"),
		Banners:      controllers.NewContentController(cms.Banners, audit, "Banner"),
		Faqs:         controllers.NewContentController(cms.Faqs, audit, "Faq"),
		Testimonials: controllers.NewContentController(cms.Testimonials, audit, "Testimonial"),
		Pages:        controllers.NewContentController(cms.Pages, audit, "StaticPage"),
		SocialLinks:  controllers.NewContentController(cms.SocialLinks, audit, "SocialLink"),
		Invitations:  controllers.NewContentController(cms.Invitations, audit, "InvitationTemplate"),
		Gallery:      controllers.NewContentController(cms.Gallery, audit, "GalleryItem"),
		Pricing:      controllers.NewContentController(cms.Pricing, audit, "PricingPlan"),
	}
}

type Options struct {
	Log         *slog.Logger
	AuthService *services.AuthService
	Limiter     *middleware.IPRateLimiter
	CorsOrigins []string
	// UploadDir is served at /uploads when uploads are stored locally.
	UploadDir string
}

func corsConfig(origins []string) cors.Config {
	allowCredentials := true
	for _, origin := range origins {
		if origin == "*" {
			allowCredentials = false
			break
		}
	}
	return cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Requested-With", middleware.RequestIDHeader},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition", middleware.RequestIDHeader},
		AllowCredentials: allowCredentials,
		MaxAge:           12 * time.Hour,
	}
}

// registerContent mounts the public reads under public and CRUD under admin.
func registerContent[T any](public, admin *gin.RouterGroup, path string, ctrl *controllers.ContentController[T], read, write []string) {
	public.GET(path, ctrl.ListPublic)

	g := admin.Group(path)
	g.GET("", middleware.Authorize(read...), ctrl.List)
	g.GET("/:id", middleware.Authorize(read...), ctrl.Get)
	g.POST("", middleware.Authorize(write...), ctrl.Create)
	g.PUT("/reorder", middleware.Authorize(write...), ctrl.Reorder)
	g.PUT("/:id", middleware.Authorize(write...), ctrl.Update)
	g.DELETE("/:id", middleware.Authorize(write...), ctrl.Delete)
}

func SetupRouter(h Controllers, opts Options) *gin.Engine {
	r := gin.New()
	r.Use(middleware.RequestID(), middleware.Logger(opts.Log), middleware.Recovery(opts.Log))
	r.Use(cors.New(corsConfig(opts.CorsOrigins)))
	if opts.UploadDir != "" {
		r.Static("/uploads", opts.UploadDir)
	}

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "timestamp": time.Now().UTC()})
	})

	api := r.Group("/api")
	if opts.Limiter != nil {
		api.Use(middleware.RateLimit(opts.Limiter))
	}

	// Public site
	api.GET("/settings", h.Settings.GetSettings)
	api.GET("/availability", h.Calendar.CheckAvailability)
	api.GET("/calendar/blocks", h.Calendar.ListBlocks)
	api.POST("/vouchers/validate", h.Vouchers.ValidateVoucher)
	api.POST("/waivers", h.Waivers.SubmitWaiver)
	api.POST("/contact", h.Contact.SubmitContact)

	bookings := api.Group("/bookings")
	{
		bookings.POST("", h.Bookings.CreateBooking)
		bookings.POST("/party", h.Bookings.CreatePartyBooking)
		bookings.POST("/quote", h.Bookings.QuoteBooking)
		bookings.GET("/reference/:ref", h.Bookings.GetBookingByReference)
	}

	api.GET("/activities/:slug", h.Activities.GetBySlug)
	api.GET("/pages/:slug", h.Pages.GetBySlug)

	authenticate := middleware.Authenticate(opts.AuthService)

	auth := api.Group("/auth")
	{
		auth.POST("/login", h.Auth.Login)
		auth.POST("/refresh", h.Auth.Refresh)
		auth.POST("/logout", authenticate, h.Auth.Logout)
		auth.GET("/me", authenticate, h.Auth.Me)
		auth.POST("/change-password", authenticate, h.Auth.ChangePassword)
	}

	// Admin dashboard
	admin := api.Group("/admin", authenticate)

	bookingsRead := middleware.Authorize("bookings:read", "parties:read")
	bookingsWrite := middleware.Authorize("bookings:write", "parties:write")
	admin.GET("/dashboard", bookingsRead, h.Bookings.Dashboard)

	adminBookings := admin.Group("/bookings")
	{
		adminBookings.GET("", bookingsRead, h.Bookings.ListBookings)
		adminBookings.GET("/export", bookingsRead, h.Bookings.ExportBookings)
		adminBookings.GET("/:id", bookingsRead, h.Bookings.GetBooking)
		adminBookings.POST("", bookingsWrite, h.Bookings.CreateManualBooking)
		adminBookings.PUT("/:id", bookingsWrite, h.Bookings.UpdateBooking)
		adminBookings.PATCH("/:id/status", bookingsWrite, h.Bookings.UpdateBookingStatus)
		adminBookings.DELETE("/:id", bookingsWrite, h.Bookings.DeleteBooking)
	}

	customers := admin.Group("/customers")
	{
		customers.GET("", middleware.Authorize("bookings:read"), h.Customer.ListCustomers)
		customers.GET("/:id", middleware.Authorize("bookings:read"), h.Customer.GetCustomer)
		customers.POST("", middleware.Authorize("bookings:write"), h.Customer.CreateCustomer)
		customers.PUT("/:id", middleware.Authorize("bookings:write"), h.Customer.UpdateCustomer)
		customers.DELETE("/:id", middleware.Authorize("bookings:write"), h.Customer.DeleteCustomer)
	}

	vouchers := admin.Group("/vouchers")
	{
		read, write := middleware.Authorize("vouchers:read"), middleware.Authorize("vouchers:write")
		vouchers.GET("", read, h.Vouchers.ListVouchers)
		vouchers.GET("/stats", read, h.Vouchers.VoucherStats)
		vouchers.GET("/export", read, h.Vouchers.ExportVouchers)
		vouchers.GET("/:id", read, h.Vouchers.GetVoucher)
		vouchers.POST("", write, h.Vouchers.CreateVoucher)
		vouchers.PUT("/:id", write, h.Vouchers.UpdateVoucher)
		vouchers.DELETE("/:id", write, h.Vouchers.DeleteVoucher)
	}

	waivers := admin.Group("/waivers")
	{
		read, write := middleware.Authorize("waivers:read"), middleware.Authorize("waivers:write")
		waivers.GET("", read, h.Waivers.ListWaivers)
		waivers.GET("/adults", read, h.Waivers.ListAdultWaivers)
		waivers.GET("/minors", read, h.Waivers.ListMinorWaivers)
		waivers.GET("/export", read, h.Waivers.ExportWaivers)
		waivers.GET("/:id", read, h.Waivers.GetWaiver)
		waivers.POST("/:id/signature", write, h.Waivers.AttachSignature)
		waivers.DELETE("/:id", write, h.Waivers.DeleteWaiver)
	}

	blocks := admin.Group("/calendar/blocks")
	{
		read, write := middleware.Authorize("holidays:read"), middleware.Authorize("holidays:write")
		blocks.GET("", read, h.Calendar.ListBlocks)
		blocks.GET("/:id", read, h.Calendar.GetBlock)
		blocks.POST("", write, h.Calendar.CreateBlock)
		blocks.PUT("/:id", write, h.Calendar.UpdateBlock)
		blocks.DELETE("/:id", write, h.Calendar.DeleteBlock)
	}

	admin.PUT("/settings", middleware.Authorize("cms:write"), h.Settings.UpdateSettings)

	messages := admin.Group("/contact-messages")
	{
		read, write := middleware.Authorize("cms:read"), middleware.Authorize("cms:write")
		messages.GET("", read, h.Contact.ListMessages)
		messages.GET("/:id", read, h.Contact.GetMessage)
		messages.PATCH("/:id/read", write, h.Contact.MarkRead)
		messages.DELETE("/:id", write, h.Contact.DeleteMessage)
	}

	cmsRead, cmsWrite := []string{"cms:read"}, []string{"cms:write"}
	cms := admin.Group("/cms")
	registerContent(api, cms, "/activities", h.Activities,
		[]string{"cms:read", "attractions:read"}, []string{"cms:write", "attractions:write"})
	registerContent(api, cms, "/banners", h.Banners, cmsRead, cmsWrite)
	registerContent(api, cms, "/faqs", h.Faqs, cmsRead, cmsWrite)
	registerContent(api, cms, "/testimonials", h.Testimonials, cmsRead, cmsWrite)
	registerContent(api, cms, "/pages", h.Pages, cmsRead, cmsWrite)
	registerContent(api, cms, "/social-links", h.SocialLinks, cmsRead, cmsWrite)
	registerContent(api, cms, "/invitation-templates", h.Invitations, cmsRead, cmsWrite)
	registerContent(api, cms, "/gallery", h.Gallery, cmsRead, cmsWrite)
	registerContent(api, cms, "/pricing-plans", h.Pricing, cmsRead, cmsWrite)

	uploads := admin.Group("/uploads", middleware.Authorize("cms:write"))
	{
		uploads.POST("", h.Uploads.Upload)
		uploads.DELETE("", h.Uploads.DeleteUpload)
	}

	users := admin.Group("/users")
	{
		read, write := middleware.Authorize("users:read"), middleware.Authorize("users:write")
		users.GET("", read, h.Admins.ListAdmins)
		users.GET("/stats", read, h.Admins.AdminStats)
		users.GET("/:id", read, h.Admins.GetAdmin)
		users.POST("", write, h.Admins.CreateAdmin)
		users.PUT("/:id", write, h.Admins.UpdateAdmin)
		users.PATCH("/:id/toggle", write, h.Admins.ToggleAdmin)
		users.DELETE("/:id", write, h.Admins.DeleteAdmin)
	}

	roles := admin.Group("/roles")
	{
		roles.GET("", middleware.Authorize("roles:read", "users:read"), h.Roles.ListRoles)
		roles.GET("/:id", middleware.Authorize("roles:read"), h.Roles.GetRole)
		roles.PUT("/:id/permissions", middleware.Authorize("roles:write"), h.Roles.UpdateRolePermissions)
	}

	admin.GET("/logs", middleware.Authorize("logs:read"), h.Audit.ListLogs)

	return r
}
