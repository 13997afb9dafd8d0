package corpus

import "bytes"

type SearchArgs struct {
	Key []byte
	// OnStep, if set, is called once per iteration with the window as it was before the
	// iteration narrowed it.
	OnStep func(SearchStep)
}

type SearchStep struct {
	Iteration int
	Low       uint64
	High      uint64
	Mid       uint64
	// Exists is false when no line starts in [Mid, High); Record and Comparison are then unset.
	Exists     bool
	Record     Record
	Comparison int
}

type SearchResult struct {
	Record      Record
	Found       bool
	Iterations  int
	Comparisons int
}

// Search bisects the byte window [low, high) of the corpus until it finds a record whose key
// equals args.Key or the window is empty.
//
// Invariant: the line holding the key, if any, starts in [low, high). Every iteration that does
// not return shrinks high - low.
func (me *Corpus) Search(args SearchArgs) (out SearchResult, _ error) {
	low, high := uint64(0), me.size

	for low < high {
		out.Iterations++
		mid := low + (high-low)/2

		record, exists, err := me.RecordAt(mid)
		if err != nil {
			return out, err
		}

		step := SearchStep{
			Iteration: out.Iterations,
			Low:       low,
			High:      high,
			Mid:       mid,
			Exists:    exists && record.Offset < high,
		}

		if !step.Exists {
			// no line starts in [mid, high)
			high = mid
			if args.OnStep != nil {
				args.OnStep(step)
			}
			continue
		}

		out.Comparisons++
		step.Record = record
		step.Comparison = bytes.Compare(record.Key, args.Key)
		if args.OnStep != nil {
			args.OnStep(step)
		}

		switch step.Comparison {
		case 0:
			out.Record = record
			out.Found = true
			return out, nil
		case -1:
			low = record.NextOffset
		default:
			high = record.Offset
		}
	}

	return out, nil
}

// LookupRecord returns a record whose key equals key.
func (me *Corpus) LookupRecord(key []byte) (out Record, exists bool, _ error) {
	result, err := me.Search(SearchArgs{Key: key})
	if err != nil {
		return out, false, err
	}
	return result.Record, result.Found, nil
}
