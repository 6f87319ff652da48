package worker

import (
	"github.com/spec-kit/complaint-service/internal/service"
	"github.com/spec-kit/complaint-service/internal/sla"
)

// StartNotificationWorker registers notification handlers.
func StartNotificationWorker(notificationService *service.NotificationService) {
	if notificationService == nil {
		return
	}
	notificationService.RegisterHandlers()
}

// StartSLAWatchdog schedules the recurring SLA scan.
func StartSLAWatchdog(watchdog *sla.Watchdog) {
	if watchdog == nil {
		return
	}
	watchdog.Start()
}
