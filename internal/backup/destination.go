package backup

import "strings"

// Destination is an external bucket that receives table exports
type Destination struct {
	BucketName     string `json:"bucketName"`
	OwnerAccountID string `json:"ownerAccountId"`
}

// ParseDestinations zips the comma separated bucket names and owners
// positionally. An empty names string yields a single empty destination,
// which callers treat as "no destinations configured".
func ParseDestinations(namesCSV, ownersCSV string) []Destination {
	names := splitAndTrim(namesCSV)
	owners := splitAndTrim(ownersCSV)

	destinations := make([]Destination, len(names))
	for i, name := range names {
		destinations[i].BucketName = name
		if i < len(owners) {
			destinations[i].OwnerAccountID = owners[i]
		}
	}

	return destinations
}

// JoinDestinations renders destinations back into the two parallel comma
// separated lists consumed by ParseDestinations.
func JoinDestinations(destinations []Destination) (names, owners string) {
	bucketNames := make([]string, len(destinations))
	bucketOwners := make([]string, len(destinations))
	for i, d := range destinations {
		bucketNames[i] = d.BucketName
		bucketOwners[i] = d.OwnerAccountID
	}
	return strings.Join(bucketNames, ","), strings.Join(bucketOwners, ",")
}

func splitAndTrim(csv string) []string {
	parts := strings.Split(csv, ",")
	for i, part := range parts {
		parts[i] = strings.TrimSpace(part)
	}
	return parts
}
