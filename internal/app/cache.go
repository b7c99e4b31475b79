package app

import "context"

// PruneCache rescans the requested roots, which prunes any cache
// entries for definition files no longer discovered, and returns the
// number of packages in the rescanned index. That is not the number of
// entries left in the cache file: excluded packages and duplicate
// definitions keep their cache entries without being indexed.
func (s Service) PruneCache(ctx context.Context, req CachePruneRequest) (CachePruneResult, error) {
	index, err := s.Scanner.Scan(ctx, req.Roots, req.Exclude)
	if err != nil {
		return CachePruneResult{}, err
	}
	return CachePruneResult{KeptEntries: len(index.Packages)}, nil
}
