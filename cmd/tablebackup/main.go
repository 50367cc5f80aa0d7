package main

var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	SetVersionInfo(Version, BuildTime, GitCommit)
	Execute()
}
