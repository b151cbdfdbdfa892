package stats

// PlotPoint is one sample of a downsampled mean-payoff series, ready for an
// external plotting collaborator. The engine never reads these back.
type PlotPoint struct {
	Cycle int     `json:"cycle"`
	Value float64 `json:"value"`
}

// BuildMeanPayoffPlot downsamples a per-cycle history into one point per
// step cycles, each point averaging its window.
func BuildMeanPayoffPlot(history []float64, step int) []PlotPoint {
	if step <= 0 {
		step = 1
	}
	points := make([]PlotPoint, 0, len(history)/step+1)
	for start := 0; start < len(history); start += step {
		end := start + step
		if end > len(history) {
			end = len(history)
		}
		sum := 0.0
		for _, value := range history[start:end] {
			sum += value
		}
		points = append(points, PlotPoint{
			Cycle: start,
			Value: sum / float64(end-start),
		})
	}
	return points
}

// AverageSeries averages several equal-purpose histories element-wise,
// truncating to the shortest. Used to aggregate benchmark replicates.
func AverageSeries(lists [][]float64) []float64 {
	if len(lists) == 0 {
		return nil
	}
	shortest := len(lists[0])
	for _, list := range lists[1:] {
		if len(list) < shortest {
			shortest = len(list)
		}
	}
	averaged := make([]float64, shortest)
	for i := 0; i < shortest; i++ {
		sum := 0.0
		for _, list := range lists {
			sum += list[i]
		}
		averaged[i] = sum / float64(len(lists))
	}
	return averaged
}

// SeriesSummary condenses one history for report output.
type SeriesSummary struct {
	Cycles    int     `json:"cycles"`
	FinalMean float64 `json:"final_mean"`
	BestMean  float64 `json:"best_mean"`
	WorstMean float64 `json:"worst_mean"`
}

func SummarizeSeries(history []float64) SeriesSummary {
	if len(history) == 0 {
		return SeriesSummary{}
	}
	summary := SeriesSummary{
		Cycles:    len(history),
		FinalMean: history[len(history)-1],
		BestMean:  history[0],
		WorstMean: history[0],
	}
	for _, value := range history {
		if value > summary.BestMean {
			summary.BestMean = value
		}
		if value < summary.WorstMean {
			summary.WorstMean = value
		}
	}
	return summary
}
