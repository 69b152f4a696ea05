package certificateRoutes

import (
	controllers "lms/controllers/course"

	"github.com/gofiber/fiber/v2"
)

// SetupCertificateRoutes sets up the public certificate routes. These back the
// URLs printed on issued certificates, so they require no authentication.
func SetupCertificateRoutes(app *fiber.App) {
	certGroup := app.Group("/certificate")

	certGroup.Get("/:certificate_id/view", controllers.ViewCertificate)
	certGroup.Get("/:certificate_id/download", controllers.DownloadCertificate)
	certGroup.Get("/:certificate_id/verify", controllers.VerifyCertificate)
}
