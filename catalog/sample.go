package catalog

import "github.com/poiesic/cinevec/core"

func year(y int) *int { return &y }

// Sample returns a small catalog for seeding demo databases.
func Sample() []*core.SourceRecord {
	return []*core.SourceRecord{
		{ShowID: "s1", Type: "Movie", Title: "Dick Johnson Is Dead", Director: "Kirsten Johnson", Country: "United States", ReleaseYear: year(2020), Rating: "PG-13", Duration: "90 min", ListedIn: "Documentaries", Description: "As her father nears the end of his life, filmmaker Kirsten Johnson stages his death in inventive and comical ways."},
		{ShowID: "s2", Type: "TV Show", Title: "Blood & Water", Country: "South Africa", ReleaseYear: year(2021), Rating: "TV-MA", Duration: "2 Seasons", ListedIn: "International TV Shows, TV Dramas", Description: "After crossing paths at a party, a Cape Town teen sets out to prove whether a private-school swimming star is her sister who was abducted at birth."},
		{ShowID: "s3", Type: "Movie", Title: "Ganglands", Director: "Julien Leclercq", Country: "France", ReleaseYear: year(2021), Rating: "TV-MA", Duration: "91 min", ListedIn: "Crime TV Shows, International TV Shows", Description: "To protect his family from a powerful drug lord, skilled thief Mehdi and his expert team of robbers are pulled into a violent underworld."},
		{ShowID: "s4", Type: "Movie", Title: "Jailbirds New Orleans", Country: "United States", ReleaseYear: year(2021), Rating: "TV-MA", Duration: "88 min", ListedIn: "Docuseries, Reality TV", Description: "Feuds, flirtations and toilet talk go down among the incarcerated women at the Orleans Justice Center in New Orleans."},
		{ShowID: "s5", Type: "TV Show", Title: "Kota Factory", Country: "India", ReleaseYear: year(2021), Rating: "TV-MA", Duration: "2 Seasons", ListedIn: "International TV Shows, Romantic TV Shows", Description: "In a city of coaching centers known to train India's finest collegiate minds, an earnest but unexceptional student and his friends navigate campus life."},
		{ShowID: "s6", Type: "Movie", Title: "Midnight Mass", Director: "Mike Flanagan", Country: "United States", ReleaseYear: year(2021), Rating: "TV-MA", Duration: "87 min", ListedIn: "TV Dramas, TV Horror", Description: "The arrival of a charismatic young priest brings glorious miracles, ominous mysteries and renewed religious fervor to a dying town desperate to believe."},
		{ShowID: "s7", Type: "Movie", Title: "My Little Pony: A New Generation", Director: "Robert Cullen", Country: "United States", ReleaseYear: year(2021), Rating: "PG", Duration: "91 min", ListedIn: "Children & Family Movies", Description: "Equestria's divided. But a bright-eyed hero believes Earth Ponies, Pegasi and Unicorns should be pals."},
		{ShowID: "s8", Type: "TV Show", Title: "Sankofa", Director: "Haile Gerima", Country: "Ghana", ReleaseYear: year(1993), Rating: "TV-MA", Duration: "2 Seasons", ListedIn: "Dramas, International Movies", Description: "On a photo shoot in Ghana, an American model slips back in time, becomes enslaved on a plantation and bears witness to the agony of her ancestral past."},
		{ShowID: "s9", Type: "Movie", Title: "The Great Indian Kitchen", Director: "Jeo Baby", Country: "India", ReleaseYear: year(2021), Rating: "TV-MA", Duration: "100 min", ListedIn: "Dramas, International Movies", Description: "A newlywed woman's role as a dutiful wife is confined to the kitchen, where she cooks and cleans for her husband and in-laws."},
		{ShowID: "s10", Type: "Movie", Title: "Intrusion", Director: "Adam Salky", Country: "United States", ReleaseYear: year(2021), Rating: "TV-14", Duration: "92 min", ListedIn: "Thrillers", Description: "After a deadly home invasion at a couple's new dream house, the traumatized wife searches for answers and learns the real danger is just beginning."},
		{ShowID: "s11", Type: "Movie", Title: "Inception", Director: "Christopher Nolan", Country: "United States", ReleaseYear: year(2010), Rating: "PG-13", Duration: "148 min", ListedIn: "Action & Adventure, Sci-Fi & Fantasy", Description: "A thief who steals corporate secrets through dream-sharing technology is given the task of planting an idea into a target's mind."},
		{ShowID: "s12", Type: "Movie", Title: "Interstellar", Director: "Christopher Nolan", Country: "United States", ReleaseYear: year(2014), Rating: "PG-13", Duration: "169 min", ListedIn: "Sci-Fi & Fantasy, Dramas", Description: "A team of explorers travel through a wormhole in space in an attempt to ensure humanity's survival."},
		{ShowID: "s13", Type: "Movie", Title: "The Matrix", Director: "Lana Wachowski, Lilly Wachowski", Country: "United States", ReleaseYear: year(1999), Rating: "R", Duration: "136 min", ListedIn: "Action & Adventure, Sci-Fi & Fantasy", Description: "A computer hacker learns from mysterious rebels about the true nature of his reality and his role in the war against its controllers."},
		{ShowID: "s14", Type: "TV Show", Title: "Dark", Country: "Germany", ReleaseYear: year(2017), Rating: "TV-MA", Duration: "3 Seasons", ListedIn: "Crime TV Shows, International TV Shows, TV Sci-Fi & Fantasy", Description: "A missing child sets four families on a frantic hunt for answers as they unearth a mind-bending mystery that spans three generations."},
		{ShowID: "s15", Type: "Movie", Title: "Arrival", Director: "Denis Villeneuve", Country: "United States", ReleaseYear: year(2016), Rating: "PG-13", Duration: "116 min", ListedIn: "Dramas, Sci-Fi & Fantasy", Description: "A linguist works with the military to communicate with alien lifeforms after twelve mysterious spacecraft appear around the world."},
	}
}
