package usecase

import "jobtrack-backend/pkg/classifier"

// CompileEntities maps extracted entities to tracking-row fields. The first
// recognized entity wins and contributes the only field: a message yielding
// both a company name and a role produces a row with whichever came first.
func CompileEntities(entities []classifier.Entity) map[string]string {
	for _, entity := range entities {
		switch entity.Kind {
		case classifier.KindCompanyName:
			return map[string]string{"Company Name": entity.Text}
		case classifier.KindStatus:
			return map[string]string{"Status": entity.Text}
		case classifier.KindJobRole:
			return map[string]string{"Job Role": entity.Text}
		}
	}

	return map[string]string{}
}
