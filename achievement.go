package main

import "slices"

// Achievement definitions
type AchievementDef struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

var Achievements = []AchievementDef{
	{"first_blood", "First Blood", "Destroy your first sentry"},
	{"collector", "Collector", "Collect 50 shards in a single run"},
	{"deep_dive", "Deep Dive", "Reach stage 5"},
	{"core_dump", "Core Dump", "Reach stage 10"},
	{"high_score", "High Score", "Score 5000 points in a run"},
	{"exterminator", "Exterminator", "Destroy 50 sentries in a single run"},
	{"hoarder", "Hoarder", "Hold 1000 permanent shards"},
}

// RunSummary is what a finished run reports to the achievement check
type RunSummary struct {
	Score  int
	Shards int
	Kills  int
	Stage  int
}

// CheckAchievements records any achievements newly earned by the run on rec
// and returns them. Already earned achievements are skipped.
func CheckAchievements(rec *ProgressRecord, run RunSummary) []AchievementDef {
	if rec == nil {
		return nil
	}

	var unlocked []AchievementDef

	check := func(id string) bool {
		if slices.Contains(rec.Achievements, id) {
			return false
		}
		switch id {
		case "first_blood":
			return run.Kills >= 1
		case "collector":
			return run.Shards >= 50
		case "deep_dive":
			return run.Stage >= 5
		case "core_dump":
			return run.Stage >= 10
		case "high_score":
			return run.Score >= 5000
		case "exterminator":
			return run.Kills >= 50
		case "hoarder":
			return rec.PermanentCurrency >= 1000
		}
		return false
	}

	for _, def := range Achievements {
		if check(def.ID) {
			rec.Achievements = append(rec.Achievements, def.ID)
			unlocked = append(unlocked, def)
		}
	}

	return unlocked
}
