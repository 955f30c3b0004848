package worker

import (
	"github.com/spec-kit/travel-crm/internal/service"
)

// StartActivityWorker registers the audit and cache invalidation handlers.
func StartActivityWorker(activityService *service.ActivityService) {
	if activityService == nil {
		return
	}
	activityService.RegisterHandlers()
}
