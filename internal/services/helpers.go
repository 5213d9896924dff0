package services

import (
	"encoding/json"

	"gorm.io/datatypes"

	"github.com/yungbote/procurement-backend/internal/data/repos/procurement"
	types "github.com/yungbote/procurement-backend/internal/domain"
	"github.com/yungbote/procurement-backend/internal/modules/procurement/splintering"
)

func mustJSON(v any) datatypes.JSON {
	raw, err := json.Marshal(v)
	if err != nil {
		return datatypes.JSON([]byte("{}"))
	}
	return datatypes.JSON(raw)
}

func repoRuleToEngine(row *types.SplinteringRule) splintering.Rule {
	return procurement.RuleToEngine(row)
}
