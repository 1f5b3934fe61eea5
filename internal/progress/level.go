package progress

// LevelInfo is a user's experience counter. Invariant: 0 <= CurrentExp < MaxExp.
type LevelInfo struct {
	Level      int `json:"level"`
	CurrentExp int `json:"current_exp"`
	MaxExp     int `json:"max_exp"`
}

const defaultMaxExp = 100

func DefaultLevelInfo() LevelInfo {
	return LevelInfo{Level: 1, CurrentExp: 0, MaxExp: defaultMaxExp}
}

// AddExperience rolls gained experience into the level counter by repeated
// subtraction, so a single award can jump several levels.
func AddExperience(info LevelInfo, gained int) LevelInfo {
	if info.Level < 1 {
		info.Level = 1
	}
	if info.MaxExp <= 0 {
		info.MaxExp = defaultMaxExp
	}
	if gained < 0 {
		gained = 0
	}
	info.CurrentExp += gained
	for info.CurrentExp >= info.MaxExp {
		info.CurrentExp -= info.MaxExp
		info.Level++
	}
	return info
}
