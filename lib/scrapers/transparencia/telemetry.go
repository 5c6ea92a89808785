package transparencia

import "transparencia-backend/lib/telemetry"

var tracer = telemetry.Tracer("transparencia.lib.scrapers.transparencia")
