package reservation

import "time"

// overlapCond: Overlaps yükleminin SQL karşılığı. Parametre sırası (to, from):
// mevcut kayıt için reserved_from < to AND reserved_to > from.
// Overlaps değişirse bu koşul da aynı anda değişmeli.
const overlapCond = "reserved_from < ? AND reserved_to > ?"

// Overlaps: [aFrom, aTo) ve [bFrom, bTo) yarı açık aralıkları kesişiyor mu?
// Uç uca değen aralıklar (aTo == bFrom) çakışmaz. Bu yüklem çakışma
// kontrolünün tek kaynağıdır; GormRepository.firstConflict aynı koşulu
// overlapCond üzerinden SQL olarak uygular.
func Overlaps(aFrom, aTo, bFrom, bTo time.Time) bool {
	return aFrom.Before(bTo) && aTo.After(bFrom)
}
