// 包 apgain：按谐振器/链接/控制场数量估算可获得的 AP
package apgain

// Rewards：各动作的 AP 奖励表
type Rewards struct {
	DeployResonator  int `json:"deployResonator"`
	CapturePortal    int `json:"capturePortal"`
	CompletionBonus  int `json:"completionBonus"`
	DestroyResonator int `json:"destroyResonator"`
	DestroyLink      int `json:"destroyLink"`
	DestroyField     int `json:"destroyField"`
}

// MaxResonators：门户满谐振器数量
const MaxResonators = 8

// DefaultRewards：游戏内的标准奖励表
func DefaultRewards() Rewards {
	return Rewards{
		DeployResonator:  125,
		CapturePortal:    500,
		CompletionBonus:  250,
		DestroyResonator: 75,
		DestroyLink:      187,
		DestroyField:     750,
	}
}

// Gain：估算结果
// FriendlyAp 为己方补满谐振器可得；EnemyAp 为摧毁后从零占领可得
type Gain struct {
	FriendlyAp    int `json:"friendlyAp"`
	EnemyAp       int `json:"enemyAp"`
	DestroyAp     int `json:"destroyAp"`
	DestroyResoAp int `json:"destroyResoAp"`
	CaptureAp     int `json:"captureAp"`
}

// 文档注释：AP 计算
// 约束：不含升级谐振器与部署插件的 AP；不校验输入范围，越界数值按公式外推，由调用方负责。
func Compute(r Rewards, resCount, linkCount, fieldCount int) Gain {
	deployAp := (MaxResonators - resCount) * r.DeployResonator
	if resCount == 0 {
		deployAp += r.CapturePortal
	}
	if resCount != MaxResonators {
		deployAp += r.CompletionBonus
	}

	destroyResoAp := resCount * r.DestroyResonator
	destroyLinkAp := linkCount * r.DestroyLink
	destroyFieldAp := fieldCount * r.DestroyField
	destroyAp := destroyResoAp + destroyLinkAp + destroyFieldAp
	captureAp := r.CapturePortal + MaxResonators*r.DeployResonator + r.CompletionBonus

	return Gain{
		FriendlyAp:    deployAp,
		EnemyAp:       destroyAp + captureAp,
		DestroyAp:     destroyAp,
		DestroyResoAp: destroyResoAp,
		CaptureAp:     captureAp,
	}
}
