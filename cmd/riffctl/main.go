// Command riffctl dissects RIFF-family containers (WebP, WAVE, AVI) in files
// and offline packet captures.
package main

func main() {
	execute()
}
