package jobs

import (
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"sharppicks/internal/odds"
	"sharppicks/internal/pickcache"
)

// SetupCron schedules the recurring data refresh jobs and returns the
// running scheduler so the caller can stop it on shutdown:
//   - odds exports and cached picks reload every 15 minutes
//   - finished-game eviction sweep every 5 minutes
//
// Both jobs also run once immediately so the process starts warm.
func SetupCron(store *odds.Store, cache *pickcache.Cache) *cron.Cron {
	reload := func() {
		if err := store.Reload(); err != nil {
			log.Printf("Scheduled odds reload failed: %v", err)
		}
		if err := cache.Reload(); err != nil {
			log.Printf("Scheduled pick cache reload failed: %v", err)
		}
	}

	evict := func() {
		if removed := cache.EvictFinished(time.Now()); removed > 0 {
			log.Printf("Eviction sweep removed %d finished games", removed)
		}
	}

	reload()

	cronService := cron.New()

	if _, err := cronService.AddFunc("*/15 * * * *", reload); err != nil {
		log.Printf("Failed to schedule reload job: %v", err)
	}
	if _, err := cronService.AddFunc("*/5 * * * *", evict); err != nil {
		log.Printf("Failed to schedule eviction job: %v", err)
	}

	cronService.Start()
	return cronService
}
