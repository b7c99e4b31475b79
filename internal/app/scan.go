package app

import "context"

// Scan walks the requested repository roots and returns the resulting
// PackageIndex, unfiltered by any solve (spec.md §4.6).
func (s Service) Scan(ctx context.Context, req ScanRequest) (ScanResult, error) {
	index, err := s.Scanner.Scan(ctx, req.Roots, req.Exclude)
	if err != nil {
		return ScanResult{}, err
	}
	return ScanResult{Index: index}, nil
}
